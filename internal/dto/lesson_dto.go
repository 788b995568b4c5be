package dto

import (
	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/models"
)

// LessonSummaryResponse is a lesson entry in the curriculum overview.
type LessonSummaryResponse struct {
	ID                 uint     `json:"id"`
	Order              int      `json:"order"`
	Title              string   `json:"title"`
	Summary            string   `json:"summary"`
	EstimatedTime      string   `json:"estimated_time"`
	LearningObjectives []string `json:"learning_objectives"`
}

// LessonResponse is the full lesson content.
type LessonResponse struct {
	LessonSummaryResponse
	Blocks   []curriculum.Block `json:"blocks"`
	Markdown string             `json:"markdown"`
}

// NewLessonSummaryResponse converts a lesson model into its overview DTO.
func NewLessonSummaryResponse(lesson models.Lesson) LessonSummaryResponse {
	objectives := []string(lesson.LearningObjectives)
	if objectives == nil {
		objectives = []string{}
	}
	return LessonSummaryResponse{
		ID:                 lesson.ID,
		Order:              lesson.Order,
		Title:              lesson.Title,
		Summary:            lesson.Summary,
		EstimatedTime:      lesson.EstimatedTime,
		LearningObjectives: objectives,
	}
}

// NewLessonResponse converts a lesson model into its detailed DTO.
func NewLessonResponse(lesson models.Lesson) LessonResponse {
	blocks := []curriculum.Block(lesson.Blocks)
	if blocks == nil {
		blocks = []curriculum.Block{}
	}
	return LessonResponse{
		LessonSummaryResponse: NewLessonSummaryResponse(lesson),
		Blocks:                blocks,
		Markdown:              lesson.RawText,
	}
}
