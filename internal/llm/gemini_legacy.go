package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiLegacyProvider implements Provider on the older generative-ai-go
// SDK. It shares GeminiConfig and model aliases with GeminiProvider.
type GeminiLegacyProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiLegacyProvider creates a Gemini provider backed by generative-ai-go.
func NewGeminiLegacyProvider(ctx context.Context, cfg GeminiConfig) (*GeminiLegacyProvider, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("gemini-legacy: %w", ErrMissingAPIKey)
	}

	opts := []option.ClientOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiLegacyProvider{
		client: client,
		model:  resolveModel(strings.TrimSpace(cfg.Model), geminiModels),
	}, nil
}

func (p *GeminiLegacyProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("gemini-legacy: request has no messages")}
	}

	m := p.client.GenerativeModel(p.model)
	m.GenerationConfig = legacyGenerationConfig(req)
	if req.System != "" {
		m.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}

	// All but the last message become chat history.
	cs := m.StartChat()
	last := len(req.Messages) - 1
	for _, msg := range req.Messages[:last] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Content)}})
	}

	result, err := cs.SendMessage(ctx, genai.Text(req.Messages[last].Content))
	if err != nil {
		return nil, mapLegacyGeminiError(err)
	}

	var usage Usage
	if u := result.UsageMetadata; u != nil {
		usage = usageOf(int(u.PromptTokenCount), int(u.CandidatesTokenCount))
	}
	content := json.RawMessage(stripCodeFences(firstText(result)))
	return finish(req, content, usage, p.model, mapLegacyStopReason(result))
}

func (p *GeminiLegacyProvider) ModelID() string {
	return p.model
}

// Close releases the underlying client.
func (p *GeminiLegacyProvider) Close() error {
	return p.client.Close()
}

func legacyGenerationConfig(req Request) genai.GenerationConfig {
	var cfg genai.GenerationConfig
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = genai.Ptr(int32(req.MaxTokens))
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = buildLegacySchema(req.Schema.Definition)
	}
	return cfg
}

var legacyTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func buildLegacySchema(def map[string]any) *genai.Schema {
	k := readKeywords(def)
	schema := &genai.Schema{
		Type:        genai.TypeString,
		Description: k.Description,
		Required:    k.Required,
		Enum:        k.Enum,
	}
	if t, ok := legacyTypes[k.Type]; ok {
		schema.Type = t
	}
	if k.Properties != nil {
		schema.Properties = make(map[string]*genai.Schema, len(k.Properties))
		for name, sub := range k.Properties {
			schema.Properties[name] = buildLegacySchema(sub)
		}
	}
	if k.Items != nil {
		schema.Items = buildLegacySchema(k.Items)
	}
	return schema
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func mapLegacyStopReason(resp *genai.GenerateContentResponse) string {
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return StopMaxTokens
	}
	return StopEnd
}

func mapLegacyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return mapStatusError(apiErr.Code, err)
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &ErrInvalidResponse{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
