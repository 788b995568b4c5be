package models

import (
	"time"

	"gorm.io/datatypes"
)

// Challenge difficulty tiers, one per level.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Challenge sources.
const (
	ChallengeSourceOriginal  = "original"
	ChallengeSourceGenerated = "generated"
)

// TestCase is an input/output example attached to a challenge.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Description    string `json:"description,omitempty"`
}

// Challenge is a graded exercise that belongs to a lesson.
type Challenge struct {
	ID                string                        `gorm:"primaryKey;size:100" json:"id"`
	LessonID          uint                          `gorm:"not null;index:idx_challenges_lesson_level,priority:1" json:"lesson_id"`
	Level             int                           `gorm:"not null;index:idx_challenges_lesson_level,priority:2" json:"level"`
	Order             int                           `gorm:"column:sort_order;not null" json:"order"`
	Title             string                        `gorm:"size:255;not null" json:"title"`
	Description       string                        `gorm:"type:text;not null" json:"description"`
	Difficulty        string                        `gorm:"size:16;not null" json:"difficulty"`
	Source            string                        `gorm:"size:16;not null" json:"source"`
	StarterCode       string                        `gorm:"type:text;not null" json:"starter_code"`
	SolutionCode      string                        `gorm:"type:text;not null" json:"solution_code"`
	ReferenceAnswer   string                        `gorm:"type:text" json:"reference_answer"`
	AnswerExplanation string                        `gorm:"type:text" json:"answer_explanation"`
	GradingCriteria   datatypes.JSONSlice[string]   `json:"grading_criteria"`
	Hints             datatypes.JSONSlice[string]   `json:"hints"`
	Tags              datatypes.JSONSlice[string]   `json:"tags"`
	PublicTests       datatypes.JSONSlice[TestCase] `json:"public_tests"`
	HiddenTests       datatypes.JSONSlice[TestCase] `json:"-"`
	Points            int                           `gorm:"not null;default:10" json:"points"`
	EstimatedTime     string                        `gorm:"size:64" json:"estimated_time"`
	CreatedAt         time.Time                     `json:"created_at"`
	UpdatedAt         time.Time                     `json:"updated_at"`
}
