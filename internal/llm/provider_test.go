package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"plan":["a"]}`), Usage: usageOf(10, 5)},
		MockPlan("b"),
		MockResponse{Err: &ErrRateLimit{}},
	)
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":["a"]}`, string(first.Content))
	assert.Equal(t, 15, first.Usage.TotalTokens)
	assert.Equal(t, StopEnd, first.StopReason)

	second, err := mock.Generate(ctx, Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"plan":["b"]}`, string(second.Content))

	_, err = mock.Generate(ctx, Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "an exhausted script behaves like a down backend")

	assert.Equal(t, 4, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestMockPlan(t *testing.T) {
	assert.JSONEq(t, `{"plan":["x","y"]}`, string(MockPlan("x", "y").Content))
	assert.JSONEq(t, `{"plan":[]}`, string(MockPlan().Content))
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Empty(t, RequestIDFrom(ctx))

	ctx = WithRequestID(WithPurpose(ctx, "improvement-plan"), "req-1")
	assert.Equal(t, "improvement-plan", PurposeFrom(ctx))
	assert.Equal(t, "req-1", RequestIDFrom(ctx))
}

func TestFinish(t *testing.T) {
	schema := planTestSchema()
	usage := usageOf(3, 4)

	t.Run("free text passes through", func(t *testing.T) {
		resp, err := finish(Request{}, json.RawMessage("hello"), usage, "m", StopMaxTokens)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(resp.Content))
		assert.Equal(t, StopMaxTokens, resp.StopReason)
		assert.Equal(t, 7, resp.Usage.TotalTokens)
	})

	t.Run("valid structured reply", func(t *testing.T) {
		resp, err := finish(Request{Schema: schema}, json.RawMessage(`{"plan":["a"]}`), usage, "m", StopEnd)
		require.NoError(t, err)
		assert.Equal(t, "m", resp.Model)
	})

	t.Run("truncated structured reply", func(t *testing.T) {
		_, err := finish(Request{Schema: schema}, json.RawMessage(`{"plan":["a"`), usage, "m", StopMaxTokens)
		var truncated *ErrMaxTokensExceeded
		assert.ErrorAs(t, err, &truncated)
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := finish(Request{Schema: schema}, json.RawMessage(`{"plan":"a"}`), usage, "m", StopEnd)
		var invalid *ErrInvalidResponse
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: ProviderGemini},
			wantErr: true,
		},
		{
			name:    "gemini-legacy with key",
			cfg:     Config{Provider: ProviderGeminiLegacy, Gemini: GeminiConfig{APIKey: "k"}},
			wantErr: false,
		},
		{
			name:    "openrouter without key",
			cfg:     Config{Provider: ProviderOpenRouter},
			wantErr: true,
		},
		{
			name:    "ollama needs no key",
			cfg:     Config{Provider: ProviderOllama},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGemini {
		t.Fatalf("expected default provider gemini, got %q", cfg.Provider)
	}
	if cfg.Gemini.Model != "gemini-3-flash" {
		t.Fatalf("expected gemini-3-flash, got %q", cfg.Gemini.Model)
	}
	if cfg.Ollama.Host != defaultOllamaHost {
		t.Fatalf("expected default ollama host, got %q", cfg.Ollama.Host)
	}
	// Defaults carry no key, so the default config is not usable as-is.
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without an API key")
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("mock", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: ProviderMock}, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*MockProvider); !ok {
			t.Fatalf("expected *MockProvider, got %T", p)
		}
	})

	t.Run("mock with event repo is logged", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: ProviderMock}, &recordingRepo{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*LoggingProvider); !ok {
			t.Fatalf("expected *LoggingProvider, got %T", p)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewProvider(ctx, Config{Provider: ProviderOpenAI}, nil, nil)
		if err == nil {
			t.Fatal("expected error for missing key")
		}
	})

	t.Run("ollama", func(t *testing.T) {
		p, err := NewProvider(ctx, Config{Provider: ProviderOllama}, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != defaultOllamaModel {
			t.Fatalf("expected %q, got %q", defaultOllamaModel, p.ModelID())
		}
	})

	t.Run("gemini with key", func(t *testing.T) {
		cfg := Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k", Model: "gemini-3-flash"}}
		p, err := NewProvider(ctx, cfg, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "gemini-3-flash-preview" {
			t.Fatalf("expected gemini-3-flash-preview, got %q", p.ModelID())
		}
	})
}
