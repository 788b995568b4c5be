package dto

import (
	"time"

	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/pkg/ai"
)

// ChallengeListRequest filters the challenges of a lesson.
type ChallengeListRequest struct {
	Level int `query:"level" validate:"omitempty,min=1,max=3"`
}

// ChallengeResponse is the public view of a challenge. Hidden tests and the
// solution are never part of it.
type ChallengeResponse struct {
	ID              string            `json:"id"`
	LessonID        uint              `json:"lesson_id"`
	Level           int               `json:"level"`
	Order           int               `json:"order"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Difficulty      string            `json:"difficulty"`
	Source          string            `json:"source"`
	StarterCode     string            `json:"starter_code"`
	GradingCriteria []string          `json:"grading_criteria"`
	Hints           []string          `json:"hints"`
	Tags            []string          `json:"tags"`
	PublicTests     []models.TestCase `json:"public_tests"`
	Points          int               `json:"points"`
	EstimatedTime   string            `json:"estimated_time"`
}

// NewChallengeResponse converts a challenge model into its public DTO.
func NewChallengeResponse(challenge models.Challenge) ChallengeResponse {
	return ChallengeResponse{
		ID:              challenge.ID,
		LessonID:        challenge.LessonID,
		Level:           challenge.Level,
		Order:           challenge.Order,
		Title:           challenge.Title,
		Description:     challenge.Description,
		Difficulty:      challenge.Difficulty,
		Source:          challenge.Source,
		StarterCode:     challenge.StarterCode,
		GradingCriteria: orEmpty([]string(challenge.GradingCriteria)),
		Hints:           orEmpty([]string(challenge.Hints)),
		Tags:            orEmpty([]string(challenge.Tags)),
		PublicTests:     orEmpty([]models.TestCase(challenge.PublicTests)),
		Points:          challenge.Points,
		EstimatedTime:   challenge.EstimatedTime,
	}
}

// SolutionResponse reveals the reference material of a passed challenge.
type SolutionResponse struct {
	ChallengeID       string `json:"challenge_id"`
	SolutionCode      string `json:"solution_code"`
	ReferenceAnswer   string `json:"reference_answer"`
	AnswerExplanation string `json:"answer_explanation"`
}

// SubmitChallengeRequest is the payload of a challenge submission.
type SubmitChallengeRequest struct {
	Code string `json:"code" validate:"required,max=20000"`
}

// SubmissionResponse describes a graded submission.
type SubmissionResponse struct {
	ID          uint        `json:"id"`
	ChallengeID string      `json:"challenge_id"`
	Passed      bool        `json:"passed"`
	Score       int         `json:"score"`
	Feedback    string      `json:"feedback"`
	Analysis    ai.Analysis `json:"analysis"`
	GradedBy    string      `json:"graded_by"`
	RuntimeMs   int64       `json:"runtime_ms"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewSubmissionResponse converts a submission model into its DTO.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	analysis := submission.Analysis.Data()
	analysis.Suggestions = orEmpty(analysis.Suggestions)
	analysis.Strengths = orEmpty(analysis.Strengths)
	analysis.Weaknesses = orEmpty(analysis.Weaknesses)
	return SubmissionResponse{
		ID:          submission.ID,
		ChallengeID: submission.ChallengeID,
		Passed:      submission.Passed,
		Score:       submission.Score,
		Feedback:    submission.Feedback,
		Analysis:    analysis,
		GradedBy:    submission.GradedBy,
		RuntimeMs:   submission.RuntimeMs,
		CreatedAt:   submission.CreatedAt,
	}
}

// SubmitChallengeResponse is returned after grading a submission.
type SubmitChallengeResponse struct {
	Submission      SubmissionResponse `json:"submission"`
	SyntaxError     string             `json:"syntax_error,omitempty"`
	FirstPass       bool               `json:"first_pass"`
	PointsAwarded   int                `json:"points_awarded"`
	LessonCompleted bool               `json:"lesson_completed"`
	BadgesGranted   []string           `json:"badges_granted"`
}

// SubmissionListRequest filters a user's submissions.
type SubmissionListRequest struct {
	ChallengeID string `query:"challenge_id" validate:"omitempty,max=100"`
	Limit       int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
