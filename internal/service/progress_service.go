package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/catalog"
	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/internal/repository"
)

// PassResult reports the side effects of a passing submission.
type PassResult struct {
	FirstPass       bool
	LessonCompleted bool
	PointsAwarded   int
	BadgesGranted   []string
}

// ProgressService tracks learning progress, scores and badges.
type ProgressService interface {
	Overview(ctx context.Context, userID uint) (dto.ProgressOverviewResponse, error)
	MarkLearned(ctx context.Context, userID, lessonID uint) (dto.LessonProgressResponse, error)
	Submissions(ctx context.Context, userID uint, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error)
	RecordPass(ctx context.Context, userID uint, challenge models.Challenge) (PassResult, error)
}

type progressService struct {
	progress    repository.ProgressRepository
	lessons     repository.LessonRepository
	challenges  repository.ChallengeRepository
	submissions repository.SubmissionRepository
	badges      repository.BadgeRepository
	leaderboard LeaderboardService
	logger      zerolog.Logger
}

// NewProgressService constructs the progress service.
func NewProgressService(
	progress repository.ProgressRepository,
	lessons repository.LessonRepository,
	challenges repository.ChallengeRepository,
	submissions repository.SubmissionRepository,
	badges repository.BadgeRepository,
	leaderboard LeaderboardService,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		progress:    progress,
		lessons:     lessons,
		challenges:  challenges,
		submissions: submissions,
		badges:      badges,
		leaderboard: leaderboard,
		logger:      logger.With().Str("component", "progress_service").Logger(),
	}
}

func (s *progressService) Overview(ctx context.Context, userID uint) (dto.ProgressOverviewResponse, error) {
	stats, err := s.progress.GetStats(ctx, userID)
	if err != nil {
		return dto.ProgressOverviewResponse{}, err
	}
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return dto.ProgressOverviewResponse{}, err
	}
	grants, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return dto.ProgressOverviewResponse{}, err
	}

	response := dto.ProgressOverviewResponse{
		UserID: userID,
		Stats: dto.UserStatsResponse{
			TotalScore:       stats.TotalScore,
			LessonsCompleted: stats.LessonsCompleted,
			ChallengesPassed: stats.ChallengesPassed,
		},
		Lessons: make([]dto.LessonProgressResponse, 0, len(rows)),
		Badges:  make([]dto.BadgeResponse, 0, len(grants)),
	}
	for _, row := range rows {
		response.Lessons = append(response.Lessons, dto.NewLessonProgressResponse(row))
	}
	for _, grant := range grants {
		response.Badges = append(response.Badges, dto.BadgeResponse{
			Code:        grant.Badge.Code,
			Name:        grant.Badge.Name,
			Icon:        grant.Badge.Icon,
			Description: grant.Badge.Description,
			Points:      grant.Badge.Points,
			GrantedAt:   grant.GrantedAt,
		})
	}
	return response, nil
}

func (s *progressService) MarkLearned(ctx context.Context, userID, lessonID uint) (dto.LessonProgressResponse, error) {
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonProgressResponse{}, ErrLessonNotFound
		}
		return dto.LessonProgressResponse{}, err
	}

	totals, err := s.challenges.CountByLevel(ctx, lessonID)
	if err != nil {
		return dto.LessonProgressResponse{}, err
	}

	progress, err := s.progress.MarkLearned(ctx, userID, lessonID, totals)
	if err != nil {
		return dto.LessonProgressResponse{}, err
	}
	return dto.NewLessonProgressResponse(progress), nil
}

func (s *progressService) Submissions(ctx context.Context, userID uint, req dto.SubmissionListRequest) ([]dto.SubmissionResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{UserID: userID, ChallengeID: req.ChallengeID, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		items = append(items, dto.NewSubmissionResponse(submission))
	}
	return items, nil
}

// RecordPass credits the first passing submission of a challenge and grants
// any badge whose rule is now met.
func (s *progressService) RecordPass(ctx context.Context, userID uint, challenge models.Challenge) (PassResult, error) {
	totals, err := s.challenges.CountByLevel(ctx, challenge.LessonID)
	if err != nil {
		return PassResult{}, err
	}

	outcome, err := s.progress.RecordPass(ctx, repository.PassRecord{
		UserID:      userID,
		LessonID:    challenge.LessonID,
		ChallengeID: challenge.ID,
		Level:       challenge.Level,
		Points:      challenge.Points,
		Totals:      totals,
	})
	if err != nil {
		return PassResult{}, fmt.Errorf("record pass: %w", err)
	}
	if !outcome.FirstPass {
		return PassResult{BadgesGranted: []string{}}, nil
	}

	result := PassResult{
		FirstPass:       true,
		LessonCompleted: outcome.LessonCompleted,
		PointsAwarded:   challenge.Points,
		BadgesGranted:   []string{},
	}
	if outcome.LessonCompleted {
		achievement := catalog.Achievement{
			LessonID:         int(challenge.LessonID),
			LessonCompleted:  true,
			LessonsCompleted: outcome.Stats.LessonsCompleted,
		}
		result.BadgesGranted = s.grantBadges(ctx, userID, achievement)
	}

	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}

	s.logger.Info().
		Uint("user_id", userID).
		Str("challenge_id", challenge.ID).
		Bool("lesson_completed", result.LessonCompleted).
		Strs("badges", result.BadgesGranted).
		Msg("challenge passed")
	return result, nil
}

// grantBadges never fails the submission; grant errors are only logged.
func (s *progressService) grantBadges(ctx context.Context, userID uint, achievement catalog.Achievement) []string {
	granted := []string{}
	badges, err := s.badges.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load badge catalog")
		return granted
	}

	for _, badge := range badges {
		if !catalog.Qualifies(badge.Rule.Data(), achievement) {
			continue
		}
		isNew, err := s.badges.Grant(ctx, userID, badge.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("badge", badge.Code).Uint("user_id", userID).Msg("failed to grant badge")
			continue
		}
		if isNew {
			granted = append(granted, badge.Code)
		}
	}
	return granted
}
