package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/models"
)

// ChallengeFilter narrows challenge listings.
type ChallengeFilter struct {
	LessonID uint
	Level    *int
}

// ChallengeRepository defines data operations for challenges.
type ChallengeRepository interface {
	List(ctx context.Context, filter ChallengeFilter) ([]models.Challenge, error)
	GetByID(ctx context.Context, id string) (models.Challenge, error)
	CountByLevel(ctx context.Context, lessonID uint) (models.LevelCounters, error)
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository constructs the repository implementation.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) List(ctx context.Context, filter ChallengeFilter) ([]models.Challenge, error) {
	query := r.db.WithContext(ctx).Model(&models.Challenge{})
	if filter.LessonID != 0 {
		query = query.Where("lesson_id = ?", filter.LessonID)
	}
	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}

	var challenges []models.Challenge
	if err := query.Order("lesson_id ASC, level ASC, sort_order ASC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&challenge).Error; err != nil {
		return models.Challenge{}, err
	}
	return challenge, nil
}

// CountByLevel returns the per-level challenge totals of a lesson.
func (r *challengeRepository) CountByLevel(ctx context.Context, lessonID uint) (models.LevelCounters, error) {
	type row struct {
		Level int
		Total int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Challenge{}).
		Select("level, COUNT(*) AS total").
		Where("lesson_id = ?", lessonID).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return models.LevelCounters{}, err
	}

	var counters models.LevelCounters
	for _, item := range rows {
		counters.SetTotal(item.Level, item.Total)
	}
	return counters, nil
}
