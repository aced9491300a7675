package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/scorecard/internal/assessment"
)

func TestFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		subject   assessment.SubjectRecord
		primary   string
		secondary string
	}{
		{
			name:      "first weak topic",
			subject:   assessment.SubjectRecord{Name: "Physics", WeakTopics: []string{"Optics", "Waves"}},
			primary:   "Spend 2 days revising Optics concepts thoroughly.",
			secondary: "Read the chapter on Physics again carefully.",
		},
		{
			name:      "blank topics skipped",
			subject:   assessment.SubjectRecord{Name: "Chemistry", WeakTopics: []string{" ", "Mole Concept"}},
			primary:   "Spend 2 days revising Mole Concept concepts thoroughly.",
			secondary: "Read the chapter on Chemistry again carefully.",
		},
		{
			name:      "no weak topics",
			subject:   assessment.SubjectRecord{Name: "English"},
			primary:   "Spend 2 days revising the core concepts thoroughly.",
			secondary: "Read the chapter on English again carefully.",
		},
		{
			name:      "no subject",
			subject:   assessment.SubjectRecord{},
			primary:   "Spend 2 days revising the core concepts thoroughly.",
			secondary: "Read the chapter on your weakest subject again carefully.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := PrimaryFallback(tt.subject)
			secondary := SecondaryFallback(tt.subject)

			assert.Len(t, primary, StepCount)
			assert.Len(t, secondary, StepCount)
			assert.Equal(t, tt.primary, primary[0])
			assert.Equal(t, tt.secondary, secondary[0])
			assert.NotEqual(t, primary, secondary)
		})
	}
}

func TestFallbackResult(t *testing.T) {
	subject := assessment.SubjectRecord{Name: "Physics", WeakTopics: []string{"Optics"}}

	res := fallback(subject, ReasonEmptyPlan, errEmptyPlan)
	assert.Equal(t, PrimaryFallback(subject), res.Steps)
	assert.True(t, res.Outcome.FellBack())
	assert.Equal(t, "Physics", res.FocusSubject)

	res = fallback(subject, ReasonProviderError, nil)
	assert.Equal(t, SecondaryFallback(subject), res.Steps)
}
