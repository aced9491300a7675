package llm

import "fmt"

// Provider names accepted by Config.Provider.
const (
	ProviderGemini       = "gemini"
	ProviderGeminiLegacy = "gemini-legacy"
	ProviderOpenAI       = "openai"
	ProviderOpenRouter   = "openrouter"
	ProviderAnthropic    = "anthropic"
	ProviderOllama       = "ollama"
	ProviderMock         = "mock"
)

// Config holds all LLM provider configuration. Values are injected by the
// caller; this package never reads the environment.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string

	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
}

// GeminiConfig holds Gemini configuration, shared by both Gemini SDKs.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-3-flash"
	BaseURL string // Optional. Overrides the Gemini API endpoint.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// OllamaConfig holds configuration for a local Ollama server.
type OllamaConfig struct {
	Host  string // Default: "http://localhost:11434"
	Model string // Default: "phi4:latest"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Gemini: GeminiConfig{
			Model: "gemini-3-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Ollama: OllamaConfig{
			Host:  defaultOllamaHost,
			Model: defaultOllamaModel,
		},
	}
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderGeminiLegacy:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("SCORECARD_GEMINI_API_KEY (or API_KEY) is required for the %s provider", c.Provider)
		}
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("SCORECARD_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("SCORECARD_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("SCORECARD_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderOllama, ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
