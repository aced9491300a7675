package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scorecard/internal/llm"
)

var scorecardEnv = []string{
	"SCORECARD_LLM_PROVIDER", "SCORECARD_GEMINI_API_KEY", "API_KEY", "GEMINI_API_KEY",
	"SCORECARD_GEMINI_MODEL", "SCORECARD_OPENAI_API_KEY", "SCORECARD_OLLAMA_HOST", "OLLAMA_HOST",
	"SCORECARD_PLAN_MAX_TOKENS", "SCORECARD_PLAN_TEMPERATURE", "SCORECARD_DB", "SCORECARD_ENV",
	"SCORECARD_ADDR", "SCORECARD_JWT_SECRET", "SCORECARD_TOKEN_TTL",
}

// isolate runs the test in an empty directory with no scorecard variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range scorecardEnv {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-3-flash", cfg.LLM.Gemini.Model)
	assert.Empty(t, cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Ollama.Host)
	assert.Equal(t, 512, cfg.Plan.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Plan.Temperature, 1e-9)
	assert.Equal(t, "production", cfg.LogEnv)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DBPath)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_GeminiKeyFallbackChain(t *testing.T) {
	isolate(t)

	t.Setenv("GEMINI_API_KEY", "from-gemini")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-gemini", cfg.LLM.Gemini.APIKey)

	t.Setenv("API_KEY", "from-api-key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-api-key", cfg.LLM.Gemini.APIKey)

	t.Setenv("SCORECARD_GEMINI_API_KEY", "from-scorecard")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-scorecard", cfg.LLM.Gemini.APIKey)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: OpenAI
  openai:
    api_key: sk-file
    model: gpt-4o
plan:
  max_tokens: 256
log:
  env: development
server:
  addr: ":9000"
`), 0o644))

	t.Setenv("SCORECARD_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 256, cfg.Plan.MaxTokens)
	assert.Equal(t, "development", cfg.LogEnv)
	assert.Equal(t, ":9100", cfg.Addr, "environment overrides the file")
}

func TestLoad_DiscoversDefaultFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scorecard.yaml"), []byte("store:\n  db: /tmp/sc.db\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sc.db", cfg.DBPath)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SCORECARD_DB=/tmp/from-dotenv.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SCORECARD_DB") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DBPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad log env", map[string]string{"SCORECARD_ENV": "staging"}},
		{"zero max tokens", map[string]string{"SCORECARD_PLAN_MAX_TOKENS": "0"}},
		{"temperature too high", map[string]string{"SCORECARD_PLAN_TEMPERATURE": "1.5"}},
		{"negative token ttl", map[string]string{"SCORECARD_TOKEN_TTL": "-1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_ServerAuth(t *testing.T) {
	isolate(t)
	t.Setenv("SCORECARD_JWT_SECRET", "  s3cret ")
	t.Setenv("SCORECARD_TOKEN_TTL", "90m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
}
