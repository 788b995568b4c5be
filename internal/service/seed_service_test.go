package service

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/internal/repository"
)

type stubCurriculumSource struct {
	docs []curriculum.LessonDocument
	err  error
}

func (s stubCurriculumSource) LoadAll() ([]curriculum.LessonDocument, error) {
	return s.docs, s.err
}

type stubCurriculumRepo struct {
	batches []repository.CurriculumBatch
	err     error
}

func (s *stubCurriculumRepo) UpsertCurriculum(ctx context.Context, batch repository.CurriculumBatch) (repository.CurriculumUpsertResult, error) {
	if s.err != nil {
		return repository.CurriculumUpsertResult{}, s.err
	}
	s.batches = append(s.batches, batch)
	return repository.CurriculumUpsertResult{
		Lessons:    int64(len(batch.Lessons)),
		Challenges: int64(len(batch.Challenges)),
		Badges:     int64(len(batch.Badges)),
	}, nil
}

func TestSeedServiceTokenGuard(t *testing.T) {
	repo := &stubCurriculumRepo{}
	source := stubCurriculumSource{docs: []curriculum.LessonDocument{curriculum.DayOne()}}

	disabled := NewSeedService(source, repo, false, "secret", testLogger())
	_, err := disabled.SeedCurriculum(context.Background(), "secret")
	require.ErrorIs(t, err, ErrSeedDisabled)

	svc := NewSeedService(source, repo, true, "secret", testLogger())
	_, err = svc.SeedCurriculum(context.Background(), "wrong")
	require.ErrorIs(t, err, ErrSeedUnauthorized)
	require.Empty(t, repo.batches)

	noToken := NewSeedService(source, repo, true, "", testLogger())
	_, err = noToken.SeedCurriculum(context.Background(), "")
	require.ErrorIs(t, err, ErrSeedUnauthorized)

	report, err := svc.SeedCurriculum(context.Background(), " secret ")
	require.NoError(t, err)
	require.Equal(t, 1, report.Lessons)
	require.Equal(t, 6, report.Badges)
	require.Len(t, repo.batches, 1)
}

func TestSeedServiceBuildsDayOneBatch(t *testing.T) {
	repo := &stubCurriculumRepo{}
	svc := NewSeedService(stubCurriculumSource{docs: []curriculum.LessonDocument{curriculum.DayOne()}}, repo, true, "secret", testLogger())

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, [3]int{4, 4, 2}, report.ChallengesLevel)
	require.Equal(t, 10, report.Challenges)

	batch := repo.batches[0]
	require.Len(t, batch.Lessons, 1)
	require.Equal(t, "Day 1: Introduction to Python", batch.Lessons[0].Title)

	first := batch.Challenges[0]
	require.Equal(t, "day1_level1_1", first.ID)
	require.Equal(t, "Exercise 1", first.Title)
	require.Equal(t, models.DifficultyEasy, first.Difficulty)
	require.Equal(t, models.ChallengeSourceOriginal, first.Source)
	require.Equal(t, 10, first.Points)
	require.Equal(t, curriculum.DefaultAnswerExplanation, first.AnswerExplanation)
	require.Equal(t, curriculum.DefaultGradingCriteria, []string(first.GradingCriteria))
	require.Equal(t, "# Reference solution\n"+first.StarterCode, first.SolutionCode)

	advanced := batch.Challenges[4]
	require.Equal(t, "Advanced Exercise 1", advanced.Title)
	require.Equal(t, 15, advanced.Points)

	generated := batch.Challenges[8]
	require.Equal(t, "challenge_1_3_1", generated.ID)
	require.Equal(t, models.ChallengeSourceGenerated, generated.Source)
	require.Equal(t, models.DifficultyHard, generated.Difficulty)
	require.Equal(t, 20, generated.Points)
	require.Equal(t, generated.ReferenceAnswer, generated.SolutionCode)
	require.NotEmpty(t, generated.GradingCriteria)
}

func TestBuildChallengesOrdersAuthoredLevelThreeAfterGenerated(t *testing.T) {
	doc := curriculum.LessonDocument{ID: 12, Title: "Modules"}
	doc.Exercises.Level3 = []curriculum.Exercise{{ID: "day12_level3_1", Level: 3, Order: 1, Description: "Write your own module"}}

	challenges := BuildChallenges(doc)
	require.Len(t, challenges, 3)
	require.Equal(t, "challenge_12_3_1", challenges[0].ID)
	require.Equal(t, "challenge_12_3_2", challenges[1].ID)
	require.Equal(t, "day12_level3_1", challenges[2].ID)
	require.Equal(t, 3, challenges[2].Order)
	require.Equal(t, "Challenge 3", challenges[2].Title)
}

func TestSeedServicePropagatesFailures(t *testing.T) {
	loadErr := errors.New("read failed")
	svc := NewSeedService(stubCurriculumSource{err: loadErr}, &stubCurriculumRepo{}, true, "secret", testLogger())
	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, loadErr)

	persistErr := errors.New("disk full")
	svc = NewSeedService(stubCurriculumSource{docs: []curriculum.LessonDocument{curriculum.DayOne()}}, &stubCurriculumRepo{err: persistErr}, true, "secret", testLogger())
	_, err = svc.Run(context.Background())
	require.ErrorIs(t, err, persistErr)
}

func TestSeedServiceRerunIsIdempotent(t *testing.T) {
	db := setupServiceDB(t)
	content := fstest.MapFS{
		"02_Day_Variables.md": {Data: []byte("# 📘 Day 2: Variables\n\nVariables hold values that a program can reuse later on.\n\n## 💻 Exercises - Day 2\n\n### Exercises: Level 1\n\n1. Declare a variable called first_name\n2. Print the type of a number\n")},
	}
	loader := curriculum.NewLoader(content, nil, testLogger())
	svc := NewSeedService(loader, repository.NewCurriculumRepository(db), true, "secret", testLogger())

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.Lessons)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.Challenges, second.Challenges)

	var lessons, challenges, badges int64
	require.NoError(t, db.Model(&models.Lesson{}).Count(&lessons).Error)
	require.NoError(t, db.Model(&models.Challenge{}).Count(&challenges).Error)
	require.NoError(t, db.Model(&models.Badge{}).Count(&badges).Error)
	require.Equal(t, int64(2), lessons)
	require.Equal(t, int64(first.Challenges), challenges)
	require.Equal(t, int64(6), badges)
}
