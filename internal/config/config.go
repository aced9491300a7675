// Package config loads scorecard settings from a .env file, an optional
// YAML config file and SCORECARD_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/scorecard/internal/llm"
	"github.com/abhisek/scorecard/internal/plan"
)

// Config is the fully resolved application configuration.
type Config struct {
	LLM  llm.Config
	Plan plan.Config

	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string
	// LogEnv selects the logger: "production" or "development".
	LogEnv string
	// Addr is the HTTP listen address for the serve command.
	Addr string
	// JWTSecret enables bearer-token auth on the HTTP API when set.
	JWTSecret string
	// TokenTTL is the lifetime of tokens minted by the token command.
	TokenTTL time.Duration
}

type fileConfig struct {
	LLM struct {
		Provider   string         `mapstructure:"provider"`
		Gemini     providerConfig `mapstructure:"gemini"`
		Anthropic  providerConfig `mapstructure:"anthropic"`
		OpenAI     providerConfig `mapstructure:"openai"`
		OpenRouter providerConfig `mapstructure:"openrouter"`
		Ollama     struct {
			Host  string `mapstructure:"host"`
			Model string `mapstructure:"model"`
		} `mapstructure:"ollama"`
	} `mapstructure:"llm"`
	Plan struct {
		MaxTokens   int     `mapstructure:"max_tokens"`
		Temperature float64 `mapstructure:"temperature"`
	} `mapstructure:"plan"`
	Store struct {
		DB string `mapstructure:"db"`
	} `mapstructure:"store"`
	Log struct {
		Env string `mapstructure:"env"`
	} `mapstructure:"log"`
	Server struct {
		Addr      string        `mapstructure:"addr"`
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"server"`
}

type providerConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// envBindings maps config keys to environment variables. When a key lists
// several variables the first one that is set wins.
var envBindings = map[string][]string{
	"llm.provider":            {"SCORECARD_LLM_PROVIDER"},
	"llm.gemini.api_key":      {"SCORECARD_GEMINI_API_KEY", "API_KEY", "GEMINI_API_KEY"},
	"llm.gemini.model":        {"SCORECARD_GEMINI_MODEL"},
	"llm.gemini.base_url":     {"SCORECARD_GEMINI_BASE_URL"},
	"llm.anthropic.api_key":   {"SCORECARD_ANTHROPIC_API_KEY"},
	"llm.anthropic.model":     {"SCORECARD_ANTHROPIC_MODEL"},
	"llm.openai.api_key":      {"SCORECARD_OPENAI_API_KEY"},
	"llm.openai.model":        {"SCORECARD_OPENAI_MODEL"},
	"llm.openai.base_url":     {"SCORECARD_OPENAI_BASE_URL"},
	"llm.openrouter.api_key":  {"SCORECARD_OPENROUTER_API_KEY"},
	"llm.openrouter.model":    {"SCORECARD_OPENROUTER_MODEL"},
	"llm.openrouter.base_url": {"SCORECARD_OPENROUTER_BASE_URL"},
	"llm.ollama.host":         {"SCORECARD_OLLAMA_HOST", "OLLAMA_HOST"},
	"llm.ollama.model":        {"SCORECARD_OLLAMA_MODEL"},
	"plan.max_tokens":         {"SCORECARD_PLAN_MAX_TOKENS"},
	"plan.temperature":        {"SCORECARD_PLAN_TEMPERATURE"},
	"store.db":                {"SCORECARD_DB"},
	"log.env":                 {"SCORECARD_ENV"},
	"server.addr":             {"SCORECARD_ADDR"},
	"server.jwt_secret":       {"SCORECARD_JWT_SECRET"},
	"server.token_ttl":        {"SCORECARD_TOKEN_TTL"},
}

// Load resolves configuration. path names a YAML config file; when empty,
// ./scorecard.yaml is used if present. A .env file in the working
// directory is loaded first and never overrides variables already set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("scorecard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := fc.toConfig()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	planDefaults := plan.DefaultConfig()

	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.ollama.host", llmDefaults.Ollama.Host)
	v.SetDefault("llm.ollama.model", llmDefaults.Ollama.Model)
	v.SetDefault("plan.max_tokens", planDefaults.MaxTokens)
	v.SetDefault("plan.temperature", planDefaults.Temperature)
	v.SetDefault("log.env", "production")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.token_ttl", "24h")
}

func (fc fileConfig) toConfig() Config {
	return Config{
		LLM: llm.Config{
			Provider: strings.ToLower(strings.TrimSpace(fc.LLM.Provider)),
			Gemini: llm.GeminiConfig{
				APIKey:  strings.TrimSpace(fc.LLM.Gemini.APIKey),
				Model:   fc.LLM.Gemini.Model,
				BaseURL: fc.LLM.Gemini.BaseURL,
			},
			Anthropic: llm.AnthropicConfig{
				APIKey: strings.TrimSpace(fc.LLM.Anthropic.APIKey),
				Model:  fc.LLM.Anthropic.Model,
			},
			OpenAI: llm.OpenAIConfig{
				APIKey:  strings.TrimSpace(fc.LLM.OpenAI.APIKey),
				Model:   fc.LLM.OpenAI.Model,
				BaseURL: fc.LLM.OpenAI.BaseURL,
			},
			OpenRouter: llm.OpenRouterConfig{
				APIKey:  strings.TrimSpace(fc.LLM.OpenRouter.APIKey),
				Model:   fc.LLM.OpenRouter.Model,
				BaseURL: fc.LLM.OpenRouter.BaseURL,
			},
			Ollama: llm.OllamaConfig{
				Host:  fc.LLM.Ollama.Host,
				Model: fc.LLM.Ollama.Model,
			},
		},
		Plan: plan.Config{
			MaxTokens:   fc.Plan.MaxTokens,
			Temperature: fc.Plan.Temperature,
		},
		DBPath: fc.Store.DB,
		LogEnv: strings.ToLower(fc.Log.Env),
		Addr:   fc.Server.Addr,

		JWTSecret: strings.TrimSpace(fc.Server.JWTSecret),
		TokenTTL:  fc.Server.TokenTTL,
	}
}

// validate checks settings that are wrong regardless of provider. A
// missing API key is not an error here: the plan service runs without a
// provider and falls back.
func (c Config) validate() error {
	switch c.LogEnv {
	case "production", "development":
	default:
		return fmt.Errorf("log.env must be production or development, got %q", c.LogEnv)
	}
	if c.Plan.MaxTokens <= 0 {
		return fmt.Errorf("plan.max_tokens must be positive, got %d", c.Plan.MaxTokens)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("server.token_ttl must be positive, got %s", c.TokenTTL)
	}
	if c.Plan.Temperature < 0 || c.Plan.Temperature > 1 {
		return fmt.Errorf("plan.temperature must be within [0, 1], got %v", c.Plan.Temperature)
	}
	return nil
}
