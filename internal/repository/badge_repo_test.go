package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pydays-api/internal/models"
)

func TestBadgeRepositoryGrantOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBadgeRepository(db)
	ctx := context.Background()

	_, err := NewCurriculumRepository(db).UpsertCurriculum(ctx, CurriculumBatch{Badges: sampleBatch().Badges})
	require.NoError(t, err)

	badge, err := repo.GetByCode(ctx, "first_day")
	require.NoError(t, err)
	require.Equal(t, models.BadgeRuleCompleteDay, badge.Rule.Data().Type)

	granted, err := repo.Grant(ctx, 9, badge.ID)
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = repo.Grant(ctx, 9, badge.ID)
	require.NoError(t, err)
	require.False(t, granted)

	grants, err := repo.ListByUser(ctx, 9)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "first_day", grants[0].Badge.Code)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSubmissionRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	for i, code := range []string{"print(1)", "print(2)", "print(3)"} {
		submission := models.Submission{UserID: 4, ChallengeID: "day1_level1_1", Code: code, Score: i * 10, GradedBy: models.GradedByFallback}
		require.NoError(t, repo.Create(ctx, &submission))
		require.NotZero(t, submission.ID)
	}
	other := models.Submission{UserID: 4, ChallengeID: "day1_level1_2", Code: "x", GradedBy: models.GradedBySyntax}
	require.NoError(t, repo.Create(ctx, &other))

	items, err := repo.List(ctx, SubmissionFilter{UserID: 4, ChallengeID: "day1_level1_1"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "print(3)", items[0].Code)

	limited, err := repo.List(ctx, SubmissionFilter{UserID: 4, Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	none, err := repo.List(ctx, SubmissionFilter{UserID: 5})
	require.NoError(t, err)
	require.Empty(t, none)
}
