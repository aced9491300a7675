package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "phi4:latest"
)

// OllamaProvider implements Provider against a local Ollama server.
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider creates a provider for the Ollama server at cfg.Host.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: bad host %q: %w", host, err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaProvider{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	stream := false
	genReq := &api.GenerateRequest{
		Model:  p.model,
		System: req.System,
		Prompt: ollamaPrompt(req.Messages),
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}
	if req.MaxTokens > 0 {
		genReq.Options["num_predict"] = req.MaxTokens
	}

	if req.Schema != nil {
		format, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		genReq.Format = format
	}

	var (
		out   strings.Builder
		final api.GenerateResponse
	)
	err := p.client.Generate(ctx, genReq, func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		if gr.Done {
			final = gr
		}
		return nil
	})
	if err != nil {
		return nil, mapOllamaError(err)
	}

	stop := StopEnd
	if final.DoneReason == "length" {
		stop = StopMaxTokens
	}
	model := final.Model
	if model == "" {
		model = p.model
	}
	content := json.RawMessage(stripCodeFences(out.String()))
	return finish(req, content, usageOf(final.PromptEvalCount, final.EvalCount), model, stop)
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// ollamaPrompt flattens the conversation into a single generate prompt.
// A lone user message is passed through unchanged.
func ollamaPrompt(msgs []Message) string {
	if len(msgs) == 1 {
		return msgs[0].Content
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", m.Role, m.Content)
	}
	return b.String()
}

func mapOllamaError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return mapStatusError(statusErr.StatusCode, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
