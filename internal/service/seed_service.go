package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/pydays-api/internal/catalog"
	"github.com/noah-isme/pydays-api/internal/curriculum"
	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/internal/observability"
	"github.com/noah-isme/pydays-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// CurriculumSource yields the parsed lessons to persist.
type CurriculumSource interface {
	LoadAll() ([]curriculum.LessonDocument, error)
}

// SeedReport summarises a curriculum seed run.
type SeedReport struct {
	Lessons         int           `json:"lessons"`
	Challenges      int           `json:"challenges"`
	Badges          int           `json:"badges"`
	ChallengesLevel [3]int        `json:"challenges_by_level"`
	Duration        time.Duration `json:"duration_ns"`
}

// SeedService loads the curriculum and upserts it into storage.
type SeedService interface {
	// SeedCurriculum is the guarded entry point used over HTTP.
	SeedCurriculum(ctx context.Context, token string) (SeedReport, error)
	// Run seeds without the token guard, for the CLI and startup seeding.
	Run(ctx context.Context) (SeedReport, error)
}

type seedService struct {
	source  CurriculumSource
	repo    repository.CurriculumRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(source CurriculumSource, repo repository.CurriculumRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		source:  source,
		repo:    repo,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedCurriculum(ctx context.Context, token string) (SeedReport, error) {
	if !s.enabled {
		return SeedReport{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedReport{}, ErrSeedUnauthorized
	}
	return s.Run(ctx)
}

func (s *seedService) Run(ctx context.Context) (SeedReport, error) {
	start := time.Now()

	docs, err := s.source.LoadAll()
	if err != nil {
		observability.SeedRuns().WithLabelValues("error").Inc()
		return SeedReport{}, fmt.Errorf("load curriculum: %w", err)
	}

	badges, err := catalog.Badges()
	if err != nil {
		observability.SeedRuns().WithLabelValues("error").Inc()
		return SeedReport{}, err
	}

	batch := repository.CurriculumBatch{Badges: badges}
	report := SeedReport{Lessons: len(docs), Badges: len(badges)}
	for _, doc := range docs {
		batch.Lessons = append(batch.Lessons, models.NewLessonFromDocument(doc))
		for _, challenge := range BuildChallenges(doc) {
			report.ChallengesLevel[challenge.Level-1]++
			batch.Challenges = append(batch.Challenges, challenge)
		}
	}
	report.Challenges = len(batch.Challenges)

	if _, err := s.repo.UpsertCurriculum(ctx, batch); err != nil {
		observability.SeedRuns().WithLabelValues("error").Inc()
		return SeedReport{}, fmt.Errorf("persist curriculum: %w", err)
	}

	report.Duration = time.Since(start)
	observability.SeedRuns().WithLabelValues("success").Inc()
	s.logger.Info().
		Int("lessons", report.Lessons).
		Int("challenges", report.Challenges).
		Int("level1", report.ChallengesLevel[0]).
		Int("level2", report.ChallengesLevel[1]).
		Int("level3", report.ChallengesLevel[2]).
		Int("badges", report.Badges).
		Dur("duration", report.Duration).
		Msg("curriculum seeded")
	return report, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

type levelProfile struct {
	titleFormat   string
	difficulty    string
	points        int
	estimatedTime string
}

var levelProfiles = map[int]levelProfile{
	1: {titleFormat: "Exercise %d", difficulty: models.DifficultyEasy, points: 10, estimatedTime: "5-10 min"},
	2: {titleFormat: "Advanced Exercise %d", difficulty: models.DifficultyMedium, points: 15, estimatedTime: "10-15 min"},
	3: {titleFormat: "Challenge %d", difficulty: models.DifficultyHard, points: 20, estimatedTime: "15-30 min"},
}

// BuildChallenges turns a lesson's parsed exercises and its generated level 3
// challenges into challenge rows. Generated challenges come first within
// level 3; authored level 3 exercises follow them.
func BuildChallenges(doc curriculum.LessonDocument) []models.Challenge {
	lessonID := uint(doc.ID)
	generated := curriculum.GenerateExtraChallenges(doc.ID, doc.Title)

	out := make([]models.Challenge, 0, doc.Exercises.Total()+len(generated))
	for _, exercise := range doc.Exercises.Level1 {
		out = append(out, exerciseChallenge(lessonID, exercise, exercise.Order))
	}
	for _, exercise := range doc.Exercises.Level2 {
		out = append(out, exerciseChallenge(lessonID, exercise, exercise.Order))
	}

	profile := levelProfiles[3]
	for _, item := range generated {
		out = append(out, models.Challenge{
			ID:                item.ID,
			LessonID:          lessonID,
			Level:             item.Level,
			Order:             item.Order,
			Title:             item.Title,
			Description:       item.Description,
			Difficulty:        profile.difficulty,
			Source:            models.ChallengeSourceGenerated,
			StarterCode:       item.StarterCode,
			SolutionCode:      item.ReferenceAnswer,
			ReferenceAnswer:   item.ReferenceAnswer,
			AnswerExplanation: item.AnswerExplanation,
			GradingCriteria:   datatypes.NewJSONSlice(item.GradingCriteria),
			Hints:             datatypes.NewJSONSlice(item.Hints),
			Tags:              datatypes.NewJSONSlice(item.Tags),
			PublicTests:       datatypes.NewJSONSlice([]models.TestCase{}),
			HiddenTests:       datatypes.NewJSONSlice([]models.TestCase{}),
			Points:            profile.points,
			EstimatedTime:     profile.estimatedTime,
		})
	}
	for _, exercise := range doc.Exercises.Level3 {
		out = append(out, exerciseChallenge(lessonID, exercise, len(generated)+exercise.Order))
	}
	return out
}

func exerciseChallenge(lessonID uint, exercise curriculum.Exercise, order int) models.Challenge {
	profile := levelProfiles[exercise.Level]
	solution := "# Reference solution\n" + exercise.StarterCode
	return models.Challenge{
		ID:                exercise.ID,
		LessonID:          lessonID,
		Level:             exercise.Level,
		Order:             order,
		Title:             fmt.Sprintf(profile.titleFormat, order),
		Description:       exercise.Description,
		Difficulty:        profile.difficulty,
		Source:            models.ChallengeSourceOriginal,
		StarterCode:       exercise.StarterCode,
		SolutionCode:      solution,
		ReferenceAnswer:   curriculum.DefaultReferenceAnswer,
		AnswerExplanation: curriculum.DefaultAnswerExplanation,
		GradingCriteria:   datatypes.NewJSONSlice(append([]string(nil), curriculum.DefaultGradingCriteria...)),
		Hints:             datatypes.NewJSONSlice(exercise.Hints),
		Tags:              datatypes.NewJSONSlice(exercise.Tags),
		PublicTests:       datatypes.NewJSONSlice([]models.TestCase{}),
		HiddenTests:       datatypes.NewJSONSlice([]models.TestCase{}),
		Points:            profile.points,
		EstimatedTime:     profile.estimatedTime,
	}
}
