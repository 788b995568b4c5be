package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/catalog"
	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/internal/repository"
	"github.com/noah-isme/pydays-api/pkg/ai"
)

type stubGrader struct {
	result  ai.GradingResult
	syntax  ai.SyntaxCheckResult
	graded  int
	lastCtx ai.GradingContext
}

func (g *stubGrader) Grade(ctx context.Context, input ai.GradingContext) ai.GradingResult {
	g.graded++
	g.lastCtx = input
	return g.result
}

func (g *stubGrader) CheckSyntax(ctx context.Context, code string) ai.SyntaxCheckResult {
	return g.syntax
}

type recordingEvents struct {
	events []SubmissionGradedEvent
}

func (r *recordingEvents) PublishSubmissionGraded(ctx context.Context, event SubmissionGradedEvent) error {
	r.events = append(r.events, event)
	return nil
}

type challengeFixture struct {
	db       *gorm.DB
	grader   *stubGrader
	events   *recordingEvents
	progress ProgressService
	svc      ChallengeService
}

func newChallengeFixture(t *testing.T) challengeFixture {
	t.Helper()
	db := setupServiceDB(t)

	seed := NewSeedService(stubCurriculumSource{docs: []curriculum.LessonDocument{curriculum.DayOne()}}, repository.NewCurriculumRepository(db), true, "secret", testLogger())
	_, err := seed.Run(context.Background())
	require.NoError(t, err)

	challengeRepo := repository.NewChallengeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	progress := NewProgressService(progressRepo, repository.NewLessonRepository(db), challengeRepo, submissionRepo, repository.NewBadgeRepository(db), nil, testLogger())

	grader := &stubGrader{
		result: ai.GradingResult{Passed: true, Score: 85, Feedback: "Nice work", Analysis: ai.Analysis{Correctness: 90, CodeQuality: 80, Efficiency: 70}},
		syntax: ai.SyntaxCheckResult{Valid: true},
	}
	events := &recordingEvents{}
	svc := NewChallengeService(challengeRepo, submissionRepo, progressRepo, progress, grader, events, testLogger())
	return challengeFixture{db: db, grader: grader, events: events, progress: progress, svc: svc}
}

func TestChallengeServiceSubmitCreditsFirstPassOnce(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, 1, "day1_level1_1", dto.SubmitChallengeRequest{Code: "print('hello')"})
	require.NoError(t, err)
	require.True(t, first.Submission.Passed)
	require.Equal(t, 85, first.Submission.Score)
	require.Equal(t, models.GradedByModel, first.Submission.GradedBy)
	require.True(t, first.FirstPass)
	require.Equal(t, 10, first.PointsAwarded)
	require.NotZero(t, first.Submission.ID)

	require.Equal(t, "Check the version of Python you are using", f.grader.lastCtx.Description)
	require.Equal(t, curriculum.DefaultReferenceAnswer, f.grader.lastCtx.ReferenceAnswer)
	require.Equal(t, curriculum.DefaultGradingCriteria, f.grader.lastCtx.Criteria)
	require.Equal(t, "print('hello')", f.grader.lastCtx.Code)

	second, err := f.svc.Submit(ctx, 1, "day1_level1_1", dto.SubmitChallengeRequest{Code: "print('hello again')"})
	require.NoError(t, err)
	require.True(t, second.Submission.Passed)
	require.False(t, second.FirstPass)
	require.Zero(t, second.PointsAwarded)

	overview, err := f.progress.Overview(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 10, overview.Stats.TotalScore)
	require.Equal(t, 1, overview.Stats.ChallengesPassed)
	require.Len(t, overview.Lessons, 1)
	require.Equal(t, 1, overview.Lessons[0].Levels.Level1Passed)
	require.Equal(t, 4, overview.Lessons[0].Levels.Level1Total)

	history, err := f.progress.Submissions(ctx, 1, dto.SubmissionListRequest{ChallengeID: "day1_level1_1"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, second.Submission.ID, history[0].ID)

	require.Len(t, f.events.events, 2)
	require.True(t, f.events.events[0].FirstPass)
	require.Equal(t, uint(1), f.events.events[0].LessonID)
}

func TestChallengeServiceSyntaxErrorSkipsGrading(t *testing.T) {
	f := newChallengeFixture(t)
	f.grader.syntax = ai.SyntaxCheckResult{Valid: false, Error: "invalid syntax on line 1"}

	resp, err := f.svc.Submit(context.Background(), 2, "day1_level1_2", dto.SubmitChallengeRequest{Code: "print('x'"})
	require.NoError(t, err)
	require.Zero(t, f.grader.graded)
	require.False(t, resp.Submission.Passed)
	require.Zero(t, resp.Submission.Score)
	require.Equal(t, "Syntax error: invalid syntax on line 1", resp.Submission.Feedback)
	require.Equal(t, models.GradedBySyntax, resp.Submission.GradedBy)
	require.Equal(t, "invalid syntax on line 1", resp.SyntaxError)
	require.False(t, resp.FirstPass)

	var stored models.Submission
	require.NoError(t, f.db.First(&stored, resp.Submission.ID).Error)
	require.Equal(t, models.GradedBySyntax, stored.GradedBy)
}

func TestChallengeServiceRecordsFallbackGrading(t *testing.T) {
	f := newChallengeFixture(t)
	f.grader.result = ai.FallbackGrade(ai.GradingContext{Code: "x=1"})

	resp, err := f.svc.Submit(context.Background(), 3, "day1_level1_1", dto.SubmitChallengeRequest{Code: "x=1"})
	require.NoError(t, err)
	require.Equal(t, models.GradedByFallback, resp.Submission.GradedBy)
	require.False(t, resp.Submission.Passed)
	require.Equal(t, 30, resp.Submission.Score)
	require.Empty(t, resp.BadgesGranted)
}

func TestChallengeServiceUnknownChallenge(t *testing.T) {
	f := newChallengeFixture(t)

	_, err := f.svc.Get(context.Background(), "day9_level1_9")
	require.ErrorIs(t, err, ErrChallengeNotFound)

	_, err = f.svc.Submit(context.Background(), 1, " ", dto.SubmitChallengeRequest{Code: "print(1)"})
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestChallengeServiceGetHidesSolution(t *testing.T) {
	f := newChallengeFixture(t)

	challenge, err := f.svc.Get(context.Background(), "challenge_1_3_1")
	require.NoError(t, err)
	require.Equal(t, 3, challenge.Level)
	require.Equal(t, models.ChallengeSourceGenerated, challenge.Source)
	require.NotEmpty(t, challenge.GradingCriteria)
	require.NotNil(t, challenge.PublicTests)
}

func TestChallengeServiceSolutionUnlocksAfterPass(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Solution(ctx, 4, "challenge_1_3_1")
	require.ErrorIs(t, err, ErrSolutionLocked)

	f.grader.result = ai.GradingResult{Passed: false, Score: 40}
	_, err = f.svc.Submit(ctx, 4, "challenge_1_3_1", dto.SubmitChallengeRequest{Code: "print(1)"})
	require.NoError(t, err)
	_, err = f.svc.Solution(ctx, 4, "challenge_1_3_1")
	require.ErrorIs(t, err, ErrSolutionLocked)

	f.grader.result = ai.GradingResult{Passed: true, Score: 75}
	_, err = f.svc.Submit(ctx, 4, "challenge_1_3_1", dto.SubmitChallengeRequest{Code: "print(2)"})
	require.NoError(t, err)

	solution, err := f.svc.Solution(ctx, 4, "challenge_1_3_1")
	require.NoError(t, err)
	require.NotEmpty(t, solution.SolutionCode)
	require.Equal(t, solution.ReferenceAnswer, solution.SolutionCode)

	_, err = f.svc.Solution(ctx, 5, "challenge_1_3_1")
	require.ErrorIs(t, err, ErrSolutionLocked)
}

func TestChallengeServiceCompletingLessonGrantsBadges(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	var challenges []models.Challenge
	require.NoError(t, f.db.Where("lesson_id = ?", 1).Order("level, sort_order").Find(&challenges).Error)
	require.Len(t, challenges, 10)

	var last dto.SubmitChallengeResponse
	total := 0
	for i, challenge := range challenges {
		resp, err := f.svc.Submit(ctx, 6, challenge.ID, dto.SubmitChallengeRequest{Code: "print('solution')"})
		require.NoError(t, err)
		require.True(t, resp.FirstPass)
		total += challenge.Points
		if i < len(challenges)-1 {
			require.False(t, resp.LessonCompleted)
		}
		last = resp
	}

	require.True(t, last.LessonCompleted)
	require.ElementsMatch(t, []string{catalog.BadgeFirstDay, catalog.BadgePerfectScore}, last.BadgesGranted)

	overview, err := f.progress.Overview(ctx, 6)
	require.NoError(t, err)
	require.Equal(t, total, overview.Stats.TotalScore)
	require.Equal(t, 1, overview.Stats.LessonsCompleted)
	require.Equal(t, 10, overview.Stats.ChallengesPassed)
	require.True(t, overview.Lessons[0].Completed)
	require.Len(t, overview.Badges, 2)
}
