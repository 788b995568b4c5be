package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

// capturedRequest mirrors the parts of a chat completion request the tests
// inspect. The SDK request type cannot be decoded directly because its
// schema field is an interface.
type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type       openai.ChatCompletionResponseFormatType `json:"type"`
		JSONSchema *struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

func completionServer(t *testing.T, status int, content string, inspect func(capturedRequest)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))

		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(req)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
			return
		}
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestGrader(t *testing.T, baseURL string, timeout time.Duration) *OpenAIGrader {
	t.Helper()
	grader, err := NewOpenAIGrader(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
		Model:   "test-model",
		Timeout: timeout,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return grader
}

var sampleContext = GradingContext{
	Description:       "Print the numbers from 1 to 3",
	ReferenceAnswer:   "for i in range(1, 4):\n    print(i)",
	AnswerExplanation: "range stops before its end argument",
	Criteria:          []string{"Uses a loop", "Prints three lines"},
	Code:              "for n in range(1, 4):\n    print(n)",
}

func TestNewOpenAIGraderRequiresKey(t *testing.T) {
	_, err := NewOpenAIGrader(OpenAIConfig{})
	require.Error(t, err)
}

func TestGradeUsesModelResultAndRecomputesScore(t *testing.T) {
	content := `{"passed":false,"score":12,"feedback":"Nice loop","analysis":{"correctness":90,"code_quality":80,"efficiency":70,"suggestions":["Name the variable i"],"strengths":["Correct output"],"weaknesses":[]}}`
	var captured capturedRequest
	server := completionServer(t, http.StatusOK, content, func(req capturedRequest) {
		captured = req
	})

	result := newTestGrader(t, server.URL, time.Second).Grade(context.Background(), sampleContext)

	require.False(t, result.Fallback)
	require.Equal(t, "Nice loop", result.Feedback)
	require.Equal(t, 90, result.Analysis.Correctness)
	require.Equal(t, 85, result.Score)
	require.True(t, result.Passed)
	require.Equal(t, []string{"Correct output"}, result.Analysis.Strengths)
	requireCompositeInvariant(t, result)

	require.Equal(t, "test-model", captured.Model)
	require.NotNil(t, captured.ResponseFormat)
	require.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, captured.ResponseFormat.Type)
	require.NotNil(t, captured.ResponseFormat.JSONSchema)
	require.Equal(t, "grading_result", captured.ResponseFormat.JSONSchema.Name)
	require.True(t, captured.ResponseFormat.JSONSchema.Strict)
	require.Contains(t, string(captured.ResponseFormat.JSONSchema.Schema), `"code_quality"`)
	require.Len(t, captured.Messages, 2)
	require.Contains(t, captured.Messages[1].Content, "1. Uses a loop\n2. Prints three lines")
	require.Contains(t, captured.Messages[1].Content, sampleContext.Code)
}

func TestGradeFallsBackOnInvalidPayloads(t *testing.T) {
	payloads := []string{
		`not json at all`,
		`{"passed":"yes","score":80,"feedback":"","analysis":{"correctness":80,"code_quality":80,"efficiency":80,"suggestions":[],"strengths":[],"weaknesses":[]}}`,
		`{"passed":true,"score":150,"feedback":"","analysis":{"correctness":80,"code_quality":80,"efficiency":80,"suggestions":[],"strengths":[],"weaknesses":[]}}`,
		`{"passed":true,"score":80,"feedback":"","analysis":{"correctness":101,"code_quality":80,"efficiency":80,"suggestions":[],"strengths":[],"weaknesses":[]}}`,
		`{"passed":true,"score":80,"feedback":"ok"}`,
	}
	for _, payload := range payloads {
		server := completionServer(t, http.StatusOK, payload, nil)

		result := newTestGrader(t, server.URL, time.Second).Grade(context.Background(), sampleContext)

		require.True(t, result.Fallback, payload)
		require.Equal(t, FallbackGrade(sampleContext), result, payload)
	}
}

func TestGradeFallsBackOnTransportError(t *testing.T) {
	server := completionServer(t, http.StatusInternalServerError, "", nil)

	result := newTestGrader(t, server.URL, time.Second).Grade(context.Background(), sampleContext)

	require.True(t, result.Fallback)
	requireCompositeInvariant(t, result)
}

func TestGradeFallsBackWhenDeadlineExceeded(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	start := time.Now()
	result := newTestGrader(t, server.URL, 50*time.Millisecond).Grade(context.Background(), sampleContext)

	require.True(t, result.Fallback)
	require.Less(t, time.Since(start), time.Second)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCheckSyntaxReportsModelVerdict(t *testing.T) {
	var captured capturedRequest
	server := completionServer(t, http.StatusOK, `{"valid":false,"error":"line 1: missing colon"}`, func(req capturedRequest) {
		captured = req
	})

	result := newTestGrader(t, server.URL, time.Second).CheckSyntax(context.Background(), "def f()\n    pass")

	require.False(t, result.Valid)
	require.Equal(t, "line 1: missing colon", result.Error)
	require.Equal(t, "syntax_check", captured.ResponseFormat.JSONSchema.Name)
}

func TestCheckSyntaxClearsErrorWhenValid(t *testing.T) {
	server := completionServer(t, http.StatusOK, `{"valid":true,"error":"none"}`, nil)

	result := newTestGrader(t, server.URL, time.Second).CheckSyntax(context.Background(), "pass")

	require.Equal(t, SyntaxCheckResult{Valid: true}, result)
}

func TestCheckSyntaxFailsOpen(t *testing.T) {
	for _, server := range []*httptest.Server{
		completionServer(t, http.StatusBadGateway, "", nil),
		completionServer(t, http.StatusOK, `{"error":"missing verdict"}`, nil),
		completionServer(t, http.StatusOK, `garbage`, nil),
	} {
		result := newTestGrader(t, server.URL, time.Second).CheckSyntax(context.Background(), "def (")
		require.Equal(t, SyntaxCheckResult{Valid: true}, result)
	}
}

func TestBuildGradingPromptIsDeterministic(t *testing.T) {
	prompt := buildGradingPrompt(sampleContext)

	require.Equal(t, prompt, buildGradingPrompt(sampleContext))
	require.Contains(t, prompt, "correctness * 0.6 + code_quality * 0.25 + efficiency * 0.15")
	require.Contains(t, prompt, "score >= 60")
	require.Contains(t, prompt, sampleContext.ReferenceAnswer)
	require.Contains(t, prompt, sampleContext.AnswerExplanation)
}
