package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func subjectSchema() *Schema {
	return &Schema{
		Name:        "subject-record",
		Description: "A scored subject",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":   map[string]any{"type": "string"},
				"score":  map[string]any{"type": "integer", "minimum": 0},
				"status": map[string]any{"type": "string", "enum": []any{"weak", "average", "strong", "good"}},
				"weakTopics": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"name", "score"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Physics","score":42,"status":"weak","weakTopics":["Optics"]}`, false},
		{"optional fields omitted", `{"name":"Biology","score":88}`, false},
		{"missing required", `{"name":"Chemistry"}`, true},
		{"wrong type", `{"name":"Chemistry","score":"sixty"}`, true},
		{"below minimum", `{"name":"Chemistry","score":-1}`, true},
		{"invalid enum", `{"name":"English","score":70,"status":"excellent"}`, true},
		{"wrong item type", `{"name":"Physics","score":42,"weakTopics":[1,2]}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty response", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(subjectSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
				if string(invErr.Content) != tt.raw {
					t.Fatalf("expected offending content to be kept, got %q", invErr.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SchemaCompiledOnce(t *testing.T) {
	schema := subjectSchema()
	schema.Name = "subject-record-cache"

	if err := validateResponse(schema, json.RawMessage(`{"name":"Physics","score":1}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := compiled.Load(schema.Name); !ok {
		t.Fatal("expected compiled schema to be cached")
	}
}
