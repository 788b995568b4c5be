package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pydays",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of model requests",
	}, []string{"model", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pydays",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed or rejected model requests",
	}, []string{"model", "operation"})

	aiFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pydays",
		Subsystem: "ai",
		Name:      "fallback_total",
		Help:      "Number of results produced by the rule based fallback",
	}, []string{"operation"})
)

const (
	operationGrade  = "grade"
	operationSyntax = "syntax_check"
)

var errNoChoices = errors.New("no choices returned from model")

// OpenAIConfig defines configuration options for the OpenAI grader.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// OpenAIGrader implements Grader against an OpenAI compatible chat
// completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a new grader using the provided configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	tracer := otel.Tracer("github.com/noah-isme/pydays-api/pkg/ai/openai")
	logger := cfg.Logger.With().Str("component", "ai_grader").Logger()

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIGrader{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Grade asks the model for a structured grade. Any failure, including an
// exceeded timeout or a payload that does not match the result schema, is
// logged and answered with FallbackGrade.
func (g *OpenAIGrader) Grade(parent context.Context, input GradingContext) GradingResult {
	ctx, cancel := context.WithTimeout(parent, g.cfg.Timeout)
	defer cancel()

	var result GradingResult
	err := g.complete(ctx, operationGrade, graderSystemPrompt(), buildGradingPrompt(input), "grading_result", gradingResponseSchema(), func(content string) error {
		return decodeValidated(content, gradingValidator, &result)
	})
	if err != nil {
		aiFallbacks.WithLabelValues(operationGrade).Inc()
		g.logger.Warn().Err(err).Msg("model grading failed, using fallback")
		return FallbackGrade(input)
	}

	result.normalize()
	return result
}

// CheckSyntax asks the model whether code parses. It fails open: when the
// model cannot answer the code is reported as valid.
func (g *OpenAIGrader) CheckSyntax(parent context.Context, code string) SyntaxCheckResult {
	ctx, cancel := context.WithTimeout(parent, g.cfg.Timeout)
	defer cancel()

	var result SyntaxCheckResult
	err := g.complete(ctx, operationSyntax, syntaxSystemPrompt(), buildSyntaxPrompt(code), "syntax_check", syntaxResponseSchema(), func(content string) error {
		return decodeValidated(content, syntaxValidator, &result)
	})
	if err != nil {
		aiFallbacks.WithLabelValues(operationSyntax).Inc()
		g.logger.Warn().Err(err).Msg("syntax check failed, accepting submission")
		return SyntaxCheckResult{Valid: true}
	}

	if result.Valid {
		result.Error = ""
	} else if strings.TrimSpace(result.Error) == "" {
		result.Error = "syntax error"
	}
	return result
}

func (g *OpenAIGrader) complete(ctx context.Context, operation, system, prompt, schemaName string, schema json.Marshaler, decode func(content string) error) error {
	ctx, span := g.tracer.Start(ctx, "openai."+operation, trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	fail := func(err error) error {
		aiFailures.WithLabelValues(g.cfg.Model, operation).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Model, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return fail(fmt.Errorf("openai %s: %w", operation, err))
	}

	if len(resp.Choices) == 0 {
		return fail(errNoChoices)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return fail(fmt.Errorf("openai %s: empty content", operation))
	}
	if err := decode(content); err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("tokens.total", resp.Usage.TotalTokens))
	return nil
}
