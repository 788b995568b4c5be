package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pydays-api/internal/models"
)

// PassRecord describes a passing submission to account for.
type PassRecord struct {
	UserID      uint
	LessonID    uint
	ChallengeID string
	Level       int
	Points      int
	Totals      models.LevelCounters
}

// PassOutcome reports what a recorded pass changed.
type PassOutcome struct {
	FirstPass       bool
	LessonCompleted bool
	Progress        models.UserLessonProgress
	Stats           models.UserStats
}

// ProgressRepository tracks per-lesson progress and user totals.
type ProgressRepository interface {
	RecordPass(ctx context.Context, record PassRecord) (PassOutcome, error)
	MarkLearned(ctx context.Context, userID, lessonID uint, totals models.LevelCounters) (models.UserLessonProgress, error)
	HasPassed(ctx context.Context, userID uint, challengeID string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.UserLessonProgress, error)
	GetStats(ctx context.Context, userID uint) (models.UserStats, error)
	TopStats(ctx context.Context, limit int) ([]models.UserStats, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs the repository implementation.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

const (
	progressTable = "user_lesson_progress"
	statsTable    = "user_stats"
)

// RecordPass applies a passing submission once per user and challenge.
// Counters are bumped with conflict-aware upserts so concurrent passes on the
// same lesson never lose an increment.
func (r *progressRepository) RecordPass(ctx context.Context, record PassRecord) (PassOutcome, error) {
	passedColumn, err := models.PassedColumn(record.Level)
	if err != nil {
		return PassOutcome{}, err
	}

	var outcome PassOutcome
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		pass := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.ChallengePass{UserID: record.UserID, ChallengeID: record.ChallengeID, PassedAt: now})
		if pass.Error != nil {
			return pass.Error
		}
		if pass.RowsAffected == 0 {
			return nil
		}
		outcome.FirstPass = true

		progress := models.UserLessonProgress{
			UserID:        record.UserID,
			LessonID:      record.LessonID,
			LevelCounters: record.Totals,
			Score:         record.Points,
			StartedAt:     &now,
			UpdatedAt:     now,
		}
		setPassed(&progress.LevelCounters, record.Level)

		assignments := map[string]interface{}{
			passedColumn:   gorm.Expr(fmt.Sprintf("%s.%s + 1", progressTable, passedColumn)),
			"score":        gorm.Expr(progressTable+".score + ?", record.Points),
			"level1_total": record.Totals.Level1Total,
			"level2_total": record.Totals.Level2Total,
			"level3_total": record.Totals.Level3Total,
			"started_at":   gorm.Expr("COALESCE("+progressTable+".started_at, ?)", now),
			"updated_at":   now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(assignments),
		}).Create(&progress).Error; err != nil {
			return err
		}

		var stored models.UserLessonProgress
		if err := tx.Where("user_id = ? AND lesson_id = ?", record.UserID, record.LessonID).First(&stored).Error; err != nil {
			return err
		}

		if stored.Complete() && stored.CompletedAt == nil {
			completed := tx.Model(&models.UserLessonProgress{}).
				Where("user_id = ? AND lesson_id = ? AND completed_at IS NULL", record.UserID, record.LessonID).
				Update("completed_at", now)
			if completed.Error != nil {
				return completed.Error
			}
			if completed.RowsAffected == 1 {
				outcome.LessonCompleted = true
				stored.CompletedAt = &now
			}
		}
		outcome.Progress = stored

		lessonsCompleted := 0
		if outcome.LessonCompleted {
			lessonsCompleted = 1
		}
		stats := models.UserStats{
			UserID:           record.UserID,
			TotalScore:       record.Points,
			LessonsCompleted: lessonsCompleted,
			ChallengesPassed: 1,
			UpdatedAt:        now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_score":       gorm.Expr(statsTable+".total_score + ?", record.Points),
				"lessons_completed": gorm.Expr(statsTable+".lessons_completed + ?", lessonsCompleted),
				"challenges_passed": gorm.Expr(statsTable + ".challenges_passed + 1"),
				"updated_at":        now,
			}),
		}).Create(&stats).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", record.UserID).First(&outcome.Stats).Error
	})
	if err != nil {
		return PassOutcome{}, err
	}
	return outcome, nil
}

func setPassed(counters *models.LevelCounters, level int) {
	switch level {
	case 1:
		counters.Level1Passed = 1
	case 2:
		counters.Level2Passed = 1
	case 3:
		counters.Level3Passed = 1
	}
}

// MarkLearned flags a lesson as read and refreshes its challenge totals.
func (r *progressRepository) MarkLearned(ctx context.Context, userID, lessonID uint, totals models.LevelCounters) (models.UserLessonProgress, error) {
	now := time.Now().UTC()
	progress := models.UserLessonProgress{
		UserID:        userID,
		LessonID:      lessonID,
		Learned:       true,
		LevelCounters: models.LevelCounters{Level1Total: totals.Level1Total, Level2Total: totals.Level2Total, Level3Total: totals.Level3Total},
		StartedAt:     &now,
		UpdatedAt:     now,
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"learned":      true,
			"level1_total": totals.Level1Total,
			"level2_total": totals.Level2Total,
			"level3_total": totals.Level3Total,
			"started_at":   gorm.Expr("COALESCE("+progressTable+".started_at, ?)", now),
			"updated_at":   now,
		}),
	}).Create(&progress).Error
	if err != nil {
		return models.UserLessonProgress{}, err
	}

	var stored models.UserLessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error; err != nil {
		return models.UserLessonProgress{}, err
	}
	return stored, nil
}

func (r *progressRepository) HasPassed(ctx context.Context, userID uint, challengeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChallengePass{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID uint) ([]models.UserLessonProgress, error) {
	var items []models.UserLessonProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("lesson_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetStats returns zeroed stats for users without any pass.
func (r *progressRepository) GetStats(ctx context.Context, userID uint) (models.UserStats, error) {
	var stats models.UserStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return models.UserStats{}, err
	}
	return stats, nil
}

func (r *progressRepository) TopStats(ctx context.Context, limit int) ([]models.UserStats, error) {
	var items []models.UserStats
	err := r.db.WithContext(ctx).
		Where("total_score > 0").
		Order("total_score DESC, user_id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
