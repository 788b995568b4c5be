package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/pydays-api/internal/curriculum"
)

// Lesson is one day of the curriculum.
type Lesson struct {
	ID                 uint                                  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Order              int                                   `gorm:"column:sort_order;not null;index" json:"order"`
	Title              string                                `gorm:"size:255;not null" json:"title"`
	Summary            string                                `gorm:"type:text;not null" json:"summary"`
	EstimatedTime      string                                `gorm:"size:64" json:"estimated_time"`
	RawText            string                                `gorm:"type:text;not null" json:"raw_text"`
	Blocks             datatypes.JSONSlice[curriculum.Block] `json:"blocks"`
	LearningObjectives datatypes.JSONSlice[string]           `json:"learning_objectives"`
	CreatedAt          time.Time                             `json:"created_at"`
	UpdatedAt          time.Time                             `json:"updated_at"`
}

// NewLessonFromDocument maps a parsed lesson document to its row.
func NewLessonFromDocument(doc curriculum.LessonDocument) Lesson {
	return Lesson{
		ID:                 uint(doc.ID),
		Order:              doc.Order,
		Title:              doc.Title,
		Summary:            doc.Summary,
		EstimatedTime:      doc.EstimatedTime,
		RawText:            doc.RawText,
		Blocks:             datatypes.NewJSONSlice(doc.Blocks),
		LearningObjectives: datatypes.NewJSONSlice(doc.LearningObjectives),
	}
}
