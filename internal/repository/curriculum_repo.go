package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pydays-api/internal/models"
)

// CurriculumBatch is everything a curriculum seed writes.
type CurriculumBatch struct {
	Lessons    []models.Lesson
	Challenges []models.Challenge
	Badges     []models.Badge
}

// CurriculumUpsertResult reports affected rows per table.
type CurriculumUpsertResult struct {
	Lessons    int64
	Challenges int64
	Badges     int64
}

// CurriculumRepository persists seeded curriculum content.
type CurriculumRepository interface {
	UpsertCurriculum(ctx context.Context, batch CurriculumBatch) (CurriculumUpsertResult, error)
}

type curriculumRepository struct {
	db *gorm.DB
}

// NewCurriculumRepository constructs the repository implementation.
func NewCurriculumRepository(db *gorm.DB) CurriculumRepository {
	return &curriculumRepository{db: db}
}

const upsertBatchSize = 100

var (
	lessonUpsertColumns = []string{
		"sort_order", "title", "summary", "estimated_time", "raw_text",
		"blocks", "learning_objectives", "updated_at",
	}
	challengeUpsertColumns = []string{
		"lesson_id", "level", "sort_order", "title", "description", "difficulty", "source",
		"starter_code", "solution_code", "reference_answer", "answer_explanation",
		"grading_criteria", "hints", "tags", "public_tests", "hidden_tests",
		"points", "estimated_time", "updated_at",
	}
	badgeUpsertColumns = []string{"name", "icon", "description", "rule", "points", "updated_at"}
)

// UpsertCurriculum writes the whole batch in a single transaction.
func (r *curriculumRepository) UpsertCurriculum(ctx context.Context, batch CurriculumBatch) (CurriculumUpsertResult, error) {
	var result CurriculumUpsertResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := upsert(tx, batch.Lessons, "id", lessonUpsertColumns)
		if err != nil {
			return err
		}
		result.Lessons = affected

		affected, err = upsert(tx, batch.Challenges, "id", challengeUpsertColumns)
		if err != nil {
			return err
		}
		result.Challenges = affected

		affected, err = upsert(tx, batch.Badges, "code", badgeUpsertColumns)
		if err != nil {
			return err
		}
		result.Badges = affected
		return nil
	})
	if err != nil {
		return CurriculumUpsertResult{}, err
	}
	return result, nil
}

func upsert[T any](tx *gorm.DB, items []T, key string, columns []string) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).CreateInBatches(&items, upsertBatchSize)
	return res.RowsAffected, res.Error
}
