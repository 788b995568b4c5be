package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/models"
)

// LessonRepository exposes read access to seeded lessons.
type LessonRepository interface {
	List(ctx context.Context) ([]models.Lesson, error)
	GetByID(ctx context.Context, id uint) (models.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository constructs the repository implementation.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

// List returns lesson overviews without the heavy content columns.
func (r *lessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Select("id", "sort_order", "title", "summary", "estimated_time", "learning_objectives", "created_at", "updated_at").
		Order("sort_order ASC, id ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepository) GetByID(ctx context.Context, id uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}
