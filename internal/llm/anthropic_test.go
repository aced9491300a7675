package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-sonnet-4-20250514"}
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-sonnet-4-20250514",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func anthropicFailure(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": "failure"},
		})
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	const plan = `{"plan":["Revise Optics","Solve 20 questions","Skip hard ones"]}`

	var body map[string]any
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		anthropicReply(plan, "end_turn")(w, r)
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a friendly mentor.",
		Messages:  []Message{{Role: RoleUser, Content: "Create an improvement plan."}},
		Schema:    planTestSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.Equal(t, plan, string(resp.Content))
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 80, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)

	assert.EqualValues(t, 256, body["max_tokens"])
	format := body["output_config"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestAnthropicProvider_TruncatedPlan(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"plan":["Revise`, "max_tokens"))

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "plan"}},
		Schema:    planTestSchema(),
		MaxTokens: 8,
	})
	var truncated *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &truncated)
}

func TestAnthropicProvider_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   string
		target any
	}{
		{"rate limit", http.StatusTooManyRequests, "rate_limit_error", new(*ErrRateLimit)},
		{"server error", http.StatusInternalServerError, "api_error", new(*ErrProviderUnavailable)},
		{"bad request", http.StatusBadRequest, "invalid_request_error", new(*ErrInvalidResponse)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, anthropicFailure(tt.status, tt.kind))
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestAnthropicParams(t *testing.T) {
	params := anthropicParams("claude-haiku-4-5-20251001", Request{
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
		Temperature: 0.4,
	})

	assert.Equal(t, anthropic.Model("claude-haiku-4-5-20251001"), params.Model)
	require.Len(t, params.Messages, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, params.Messages[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, params.Messages[1].Role)
	assert.Empty(t, params.System)
	assert.InDelta(t, 0.4, params.Temperature.Value, 1e-9)
}

func TestAnthropicModelMapping(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-20250514", resolveModel("claude-sonnet", anthropicModels))
	assert.Equal(t, "claude-haiku-4-5-20251001", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "claude-opus-4-1", resolveModel("claude-opus-4-1", anthropicModels))
}
