package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/pydays-api/pkg/ai"
)

// Grading paths recorded on a submission.
const (
	GradedByModel    = "model"
	GradedByFallback = "fallback"
	GradedBySyntax   = "syntax_check"
)

// Submission is one graded attempt at a challenge.
type Submission struct {
	ID          uint                            `gorm:"primaryKey" json:"id"`
	UserID      uint                            `gorm:"not null;index:idx_submissions_user_challenge,priority:1" json:"user_id"`
	ChallengeID string                          `gorm:"size:100;not null;index:idx_submissions_user_challenge,priority:2" json:"challenge_id"`
	Code        string                          `gorm:"type:text;not null" json:"code"`
	Passed      bool                            `gorm:"not null;default:false" json:"passed"`
	Score       int                             `gorm:"not null;default:0" json:"score"`
	Feedback    string                          `gorm:"type:text" json:"feedback"`
	Analysis    datatypes.JSONType[ai.Analysis] `json:"analysis"`
	GradedBy    string                          `gorm:"size:16;not null" json:"graded_by"`
	RuntimeMs   int64                           `gorm:"not null;default:0" json:"runtime_ms"`
	CreatedAt   time.Time                       `json:"created_at"`
}
