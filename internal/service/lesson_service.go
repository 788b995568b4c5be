package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/repository"
)

var (
	// ErrLessonNotFound indicates the lesson id is unknown.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrInvalidLevel indicates a challenge level outside 1..3.
	ErrInvalidLevel = errors.New("level must be between 1 and 3")
)

// LessonService serves curriculum content.
type LessonService interface {
	List(ctx context.Context) ([]dto.LessonSummaryResponse, error)
	Get(ctx context.Context, id uint) (dto.LessonResponse, error)
	ListChallenges(ctx context.Context, lessonID uint, level int) ([]dto.ChallengeResponse, error)
}

type lessonService struct {
	lessons    repository.LessonRepository
	challenges repository.ChallengeRepository
	logger     zerolog.Logger
}

// NewLessonService constructs the lesson service.
func NewLessonService(lessons repository.LessonRepository, challenges repository.ChallengeRepository, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:    lessons,
		challenges: challenges,
		logger:     logger.With().Str("component", "lesson_service").Logger(),
	}
}

func (s *lessonService) List(ctx context.Context) ([]dto.LessonSummaryResponse, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LessonSummaryResponse, 0, len(lessons))
	for _, lesson := range lessons {
		items = append(items, dto.NewLessonSummaryResponse(lesson))
	}
	return items, nil
}

func (s *lessonService) Get(ctx context.Context, id uint) (dto.LessonResponse, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}
	return dto.NewLessonResponse(lesson), nil
}

// ListChallenges returns the public challenges of a lesson; level 0 means
// every level.
func (s *lessonService) ListChallenges(ctx context.Context, lessonID uint, level int) ([]dto.ChallengeResponse, error) {
	if level < 0 || level > 3 {
		return nil, ErrInvalidLevel
	}
	if _, err := s.lessons.GetByID(ctx, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	filter := repository.ChallengeFilter{LessonID: lessonID}
	if level > 0 {
		filter.Level = &level
	}
	challenges, err := s.challenges.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		items = append(items, dto.NewChallengeResponse(challenge))
	}
	return items, nil
}
