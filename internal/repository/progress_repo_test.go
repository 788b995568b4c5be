package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pydays-api/internal/models"
)

func TestProgressRepositoryRecordPassCountsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	totals := models.LevelCounters{Level1Total: 2, Level3Total: 1}
	record := PassRecord{UserID: 7, LessonID: 2, ChallengeID: "day2_level1_1", Level: 1, Points: 10, Totals: totals}

	outcome, err := repo.RecordPass(ctx, record)
	require.NoError(t, err)
	require.True(t, outcome.FirstPass)
	require.False(t, outcome.LessonCompleted)
	require.Equal(t, 1, outcome.Progress.Level1Passed)
	require.Equal(t, 2, outcome.Progress.Level1Total)
	require.Equal(t, 10, outcome.Progress.Score)
	require.NotNil(t, outcome.Progress.StartedAt)
	require.Equal(t, 10, outcome.Stats.TotalScore)
	require.Equal(t, 1, outcome.Stats.ChallengesPassed)

	again, err := repo.RecordPass(ctx, record)
	require.NoError(t, err)
	require.False(t, again.FirstPass)

	stats, err := repo.GetStats(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalScore)
	require.Equal(t, 1, stats.ChallengesPassed)
}

func TestProgressRepositoryRecordPassCompletesLesson(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	totals := models.LevelCounters{Level1Total: 1, Level2Total: 1}
	first, err := repo.RecordPass(ctx, PassRecord{UserID: 3, LessonID: 4, ChallengeID: "day4_level1_1", Level: 1, Points: 10, Totals: totals})
	require.NoError(t, err)
	require.False(t, first.LessonCompleted)

	second, err := repo.RecordPass(ctx, PassRecord{UserID: 3, LessonID: 4, ChallengeID: "day4_level2_1", Level: 2, Points: 15, Totals: totals})
	require.NoError(t, err)
	require.True(t, second.FirstPass)
	require.True(t, second.LessonCompleted)
	require.NotNil(t, second.Progress.CompletedAt)
	require.Equal(t, 25, second.Progress.Score)
	require.Equal(t, 25, second.Stats.TotalScore)
	require.Equal(t, 1, second.Stats.LessonsCompleted)
	require.Equal(t, 2, second.Stats.ChallengesPassed)
}

func TestProgressRepositoryRejectsUnknownLevel(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewProgressRepository(db).RecordPass(context.Background(), PassRecord{UserID: 1, LessonID: 1, ChallengeID: "x", Level: 4})
	require.Error(t, err)
}

func TestProgressRepositoryMarkLearnedKeepsCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	totals := models.LevelCounters{Level1Total: 3}
	_, err := repo.RecordPass(ctx, PassRecord{UserID: 5, LessonID: 1, ChallengeID: "day1_level1_1", Level: 1, Points: 10, Totals: totals})
	require.NoError(t, err)

	progress, err := repo.MarkLearned(ctx, 5, 1, totals)
	require.NoError(t, err)
	require.True(t, progress.Learned)
	require.Equal(t, 1, progress.Level1Passed)
	require.Equal(t, 3, progress.Level1Total)

	fresh, err := repo.MarkLearned(ctx, 5, 2, models.LevelCounters{Level1Total: 4})
	require.NoError(t, err)
	require.True(t, fresh.Learned)
	require.Zero(t, fresh.Level1Passed)

	items, err := repo.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, uint(1), items[0].LessonID)
}

func TestProgressRepositoryHasPassedAndTopStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	passed, err := repo.HasPassed(ctx, 1, "day1_level1_1")
	require.NoError(t, err)
	require.False(t, passed)

	_, err = repo.RecordPass(ctx, PassRecord{UserID: 1, LessonID: 1, ChallengeID: "day1_level1_1", Level: 1, Points: 10, Totals: models.LevelCounters{Level1Total: 5}})
	require.NoError(t, err)
	_, err = repo.RecordPass(ctx, PassRecord{UserID: 2, LessonID: 1, ChallengeID: "challenge_1_3_1", Level: 3, Points: 20, Totals: models.LevelCounters{Level3Total: 2}})
	require.NoError(t, err)

	passed, err = repo.HasPassed(ctx, 1, "day1_level1_1")
	require.NoError(t, err)
	require.True(t, passed)

	top, err := repo.TopStats(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, uint(2), top[0].UserID)
	require.Equal(t, uint(1), top[1].UserID)

	limited, err := repo.TopStats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	empty, err := repo.GetStats(ctx, 99)
	require.NoError(t, err)
	require.Equal(t, uint(99), empty.UserID)
	require.Zero(t, empty.TotalScore)
}
