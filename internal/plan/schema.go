package plan

import "github.com/abhisek/scorecard/internal/llm"

// PlanSchema defines the JSON schema for an improvement plan. The plan
// field is optional; an absent plan is handled by the primary fallback.
var PlanSchema = &llm.Schema{
	Name:        "improvement-plan",
	Description: "A 3-step improvement plan for a student's weakest subject",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"plan": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 3 steps: Conceptual Revision, Practice, Exam Strategy",
			},
		},
	},
}
