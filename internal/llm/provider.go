package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model backend. Implementations make a
// single attempt per call.
type Provider interface {
	// Generate returns the model's reply. When req.Schema is set the
	// reply Content is JSON that has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider talks to.
	ModelID() string
}

// Request is a prompt plus generation settings.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the backend for structured output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the backend default for
	// providers that distinguish unset from zero.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a JSON Schema the reply must satisfy.
type Schema struct {
	// Name is kebab-case and doubles as the OpenAI schema name and the
	// validator cache key.
	Name        string
	Description string
	Definition  map[string]any

	// Strict turns on OpenAI strict mode, which needs every property
	// listed as required.
	Strict bool
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a finished model reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // StopEnd or StopMaxTokens
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func usageOf(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// finish applies the structured-output checks shared by every backend.
// A structured reply cut off at the token limit is never valid JSON worth
// keeping, so it is reported as ErrMaxTokensExceeded before validation.
func finish(req Request, content json.RawMessage, usage Usage, model, stop string) (*Response, error) {
	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}
