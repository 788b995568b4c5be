package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/pydays-api/internal/dto"
	"github.com/noah-isme/pydays-api/internal/models"
	"github.com/noah-isme/pydays-api/internal/observability"
	"github.com/noah-isme/pydays-api/internal/repository"
	"github.com/noah-isme/pydays-api/pkg/ai"
)

var (
	// ErrChallengeNotFound indicates the challenge id is unknown.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrSolutionLocked indicates the user has not passed the challenge yet.
	ErrSolutionLocked = errors.New("pass the challenge to unlock its solution")
)

// ChallengeService serves challenges and grades submissions.
type ChallengeService interface {
	Get(ctx context.Context, id string) (dto.ChallengeResponse, error)
	Solution(ctx context.Context, userID uint, id string) (dto.SolutionResponse, error)
	Submit(ctx context.Context, userID uint, id string, req dto.SubmitChallengeRequest) (dto.SubmitChallengeResponse, error)
}

type challengeService struct {
	challenges  repository.ChallengeRepository
	submissions repository.SubmissionRepository
	passes      repository.ProgressRepository
	progress    ProgressService
	grader      ai.Grader
	publisher   EventPublisher
	logger      zerolog.Logger
}

// NewChallengeService constructs the challenge service.
func NewChallengeService(
	challenges repository.ChallengeRepository,
	submissions repository.SubmissionRepository,
	passes repository.ProgressRepository,
	progress ProgressService,
	grader ai.Grader,
	publisher EventPublisher,
	logger zerolog.Logger,
) ChallengeService {
	if grader == nil {
		grader = ai.FallbackGrader{}
	}
	return &challengeService{
		challenges:  challenges,
		submissions: submissions,
		passes:      passes,
		progress:    progress,
		grader:      grader,
		publisher:   publisher,
		logger:      logger.With().Str("component", "challenge_service").Logger(),
	}
}

func (s *challengeService) Get(ctx context.Context, id string) (dto.ChallengeResponse, error) {
	challenge, err := s.load(ctx, id)
	if err != nil {
		return dto.ChallengeResponse{}, err
	}
	return dto.NewChallengeResponse(challenge), nil
}

func (s *challengeService) Solution(ctx context.Context, userID uint, id string) (dto.SolutionResponse, error) {
	challenge, err := s.load(ctx, id)
	if err != nil {
		return dto.SolutionResponse{}, err
	}

	passed, err := s.passes.HasPassed(ctx, userID, challenge.ID)
	if err != nil {
		return dto.SolutionResponse{}, err
	}
	if !passed {
		return dto.SolutionResponse{}, ErrSolutionLocked
	}

	return dto.SolutionResponse{
		ChallengeID:       challenge.ID,
		SolutionCode:      challenge.SolutionCode,
		ReferenceAnswer:   challenge.ReferenceAnswer,
		AnswerExplanation: challenge.AnswerExplanation,
	}, nil
}

// Submit runs the syntax pre-check, grades the code, stores the attempt and
// credits a first pass. Grading itself never fails; only storage errors do.
func (s *challengeService) Submit(ctx context.Context, userID uint, id string, req dto.SubmitChallengeRequest) (dto.SubmitChallengeResponse, error) {
	challenge, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmitChallengeResponse{}, err
	}

	start := time.Now()
	submission := models.Submission{UserID: userID, ChallengeID: challenge.ID, Code: req.Code}
	response := dto.SubmitChallengeResponse{BadgesGranted: []string{}}

	syntax := s.grader.CheckSyntax(ctx, req.Code)
	if !syntax.Valid {
		submission.Feedback = fmt.Sprintf("Syntax error: %s", syntax.Error)
		submission.GradedBy = models.GradedBySyntax
		submission.Analysis = datatypes.NewJSONType(ai.Analysis{Suggestions: []string{"Fix the syntax error and submit again."}, Strengths: []string{}, Weaknesses: []string{}})
		response.SyntaxError = syntax.Error
	} else {
		result := s.grader.Grade(ctx, gradingContext(challenge, req.Code))
		submission.Passed = result.Passed
		submission.Score = result.Score
		submission.Feedback = result.Feedback
		submission.Analysis = datatypes.NewJSONType(result.Analysis)
		submission.GradedBy = models.GradedByModel
		if result.Fallback {
			submission.GradedBy = models.GradedByFallback
		}
	}
	submission.RuntimeMs = time.Since(start).Milliseconds()

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmitChallengeResponse{}, err
	}
	observability.Submissions().WithLabelValues(submissionOutcome(submission), submission.GradedBy).Inc()

	if submission.Passed {
		pass, err := s.progress.RecordPass(ctx, userID, challenge)
		if err != nil {
			return dto.SubmitChallengeResponse{}, err
		}
		response.FirstPass = pass.FirstPass
		response.PointsAwarded = pass.PointsAwarded
		response.LessonCompleted = pass.LessonCompleted
		response.BadgesGranted = pass.BadgesGranted
	}
	response.Submission = dto.NewSubmissionResponse(submission)

	s.publish(ctx, challenge, submission, response)
	return response, nil
}

func (s *challengeService) load(ctx context.Context, id string) (models.Challenge, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Challenge{}, ErrChallengeNotFound
	}
	challenge, err := s.challenges.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Challenge{}, ErrChallengeNotFound
		}
		return models.Challenge{}, err
	}
	return challenge, nil
}

func (s *challengeService) publish(ctx context.Context, challenge models.Challenge, submission models.Submission, response dto.SubmitChallengeResponse) {
	if s.publisher == nil {
		return
	}
	event := SubmissionGradedEvent{
		SubmissionID:    submission.ID,
		UserID:          submission.UserID,
		ChallengeID:     challenge.ID,
		LessonID:        challenge.LessonID,
		Passed:          submission.Passed,
		Score:           submission.Score,
		GradedBy:        submission.GradedBy,
		FirstPass:       response.FirstPass,
		LessonCompleted: response.LessonCompleted,
		BadgesGranted:   response.BadgesGranted,
	}
	if err := s.publisher.PublishSubmissionGraded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish submission event")
	}
}

func gradingContext(challenge models.Challenge, code string) ai.GradingContext {
	return ai.GradingContext{
		Description:       challenge.Description,
		ReferenceAnswer:   challenge.ReferenceAnswer,
		AnswerExplanation: challenge.AnswerExplanation,
		Criteria:          []string(challenge.GradingCriteria),
		Code:              code,
	}
}

func submissionOutcome(submission models.Submission) string {
	switch {
	case submission.GradedBy == models.GradedBySyntax:
		return "syntax_error"
	case submission.Passed:
		return "passed"
	default:
		return "failed"
	}
}
