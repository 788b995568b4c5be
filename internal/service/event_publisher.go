package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubmissionGradedEvent is published after every graded submission.
type SubmissionGradedEvent struct {
	SubmissionID    uint      `json:"submission_id"`
	UserID          uint      `json:"user_id"`
	ChallengeID     string    `json:"challenge_id"`
	LessonID        uint      `json:"lesson_id"`
	Passed          bool      `json:"passed"`
	Score           int       `json:"score"`
	GradedBy        string    `json:"graded_by"`
	FirstPass       bool      `json:"first_pass"`
	LessonCompleted bool      `json:"lesson_completed"`
	BadgesGranted   []string  `json:"badges_granted"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// EventPublisher fans grading events out to other services.
type EventPublisher interface {
	PublishSubmissionGraded(ctx context.Context, event SubmissionGradedEvent) error
}

// messagePublisher is the subset of *nats.Conn the publisher needs.
type messagePublisher interface {
	Publish(subject string, data []byte) error
}

type natsEventPublisher struct {
	conn    messagePublisher
	subject string
	logger  zerolog.Logger
}

// NewEventPublisher publishes events on NATS. A nil connection yields a
// publisher that only logs.
func NewEventPublisher(conn *nats.Conn, subjectBase string, logger zerolog.Logger) EventPublisher {
	if conn == nil {
		return newEventPublisher(nil, subjectBase, logger)
	}
	return newEventPublisher(conn, subjectBase, logger)
}

func newEventPublisher(conn messagePublisher, subjectBase string, logger zerolog.Logger) *natsEventPublisher {
	base := strings.Trim(strings.ReplaceAll(subjectBase, ":", "."), ".")
	if base == "" {
		base = "pydays"
	}
	return &natsEventPublisher{
		conn:    conn,
		subject: base + ".submission.graded",
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) PublishSubmissionGraded(ctx context.Context, event SubmissionGradedEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if p.conn == nil {
		p.logger.Debug().Uint("submission_id", event.SubmissionID).Msg("event publishing disabled")
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, payload)
}
