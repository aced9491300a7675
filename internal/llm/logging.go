package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/scorecard/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	name      string
	logger    *zap.Logger
}

// WithLogging wraps a Provider with event logging. A nil logger discards
// persistence warnings.
func WithLogging(p Provider, repo store.EventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingProvider{
		inner:     p,
		eventRepo: repo,
		name:      providerName(p),
		logger:    logger.Named("llm"),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		RequestID:   RequestIDFrom(ctx),
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) && data.ResponseBody == "" {
			data.ResponseBody = string(invalid.Content)
		}
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		l.logger.Warn("failed to record LLM request event",
			zap.String("purpose", purpose),
			zap.Error(logErr))
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// Close closes the wrapped provider if it holds resources.
func (l *LoggingProvider) Close() error {
	return Close(l.inner)
}

// Close releases p's client if it has one. Providers without resources
// are a no-op.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// providerName returns the Config.Provider name for a concrete provider.
func providerName(p Provider) string {
	switch p.(type) {
	case *GeminiProvider:
		return ProviderGemini
	case *GeminiLegacyProvider:
		return ProviderGeminiLegacy
	case *OpenRouterProvider:
		return ProviderOpenRouter
	case *OpenAIProvider:
		return ProviderOpenAI
	case *AnthropicProvider:
		return ProviderAnthropic
	case *OllamaProvider:
		return ProviderOllama
	case *MockProvider:
		return ProviderMock
	}
	return p.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
