package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNotObject = errors.New("response is not a JSON object")
	errPlanShape = errors.New("plan is not an array of strings")
	errShortPlan = errors.New("plan has fewer usable steps than required")
	errEmptyPlan = errors.New("response has no plan steps")
)

// decodePlan reads the plan field of a provider response. The field may be
// absent, null, present with the wrong shape, or a list of any length, so
// it is decoded in stages instead of into a fixed struct.
//
// On success it returns exactly StepCount steps. Otherwise the returned
// reason selects the fallback.
func decodePlan(raw json.RawMessage) ([]string, Reason, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, ReasonMalformed, fmt.Errorf("%w: %v", errNotObject, err)
	}
	if fields == nil {
		// Top-level null.
		return nil, ReasonMalformed, errNotObject
	}

	planRaw, ok := fields["plan"]
	if !ok || isNull(planRaw) {
		return nil, ReasonEmptyPlan, errEmptyPlan
	}

	var items []json.RawMessage
	if err := json.Unmarshal(planRaw, &items); err != nil {
		return nil, ReasonMalformed, fmt.Errorf("%w: %v", errPlanShape, err)
	}
	if len(items) == 0 {
		return nil, ReasonEmptyPlan, errEmptyPlan
	}

	steps := make([]string, 0, len(items))
	for i, item := range items {
		var step string
		if err := json.Unmarshal(item, &step); err != nil {
			return nil, ReasonMalformed, fmt.Errorf("%w: item %d: %v", errPlanShape, i, err)
		}
		steps = append(steps, step)
	}

	if len(steps) < StepCount {
		return nil, ReasonShortPlan, fmt.Errorf("%w: got %d", errShortPlan, len(steps))
	}
	steps = steps[:StepCount]
	for i, step := range steps {
		if strings.TrimSpace(step) == "" {
			return nil, ReasonShortPlan, fmt.Errorf("%w: step %d is blank", errShortPlan, i+1)
		}
	}

	return steps, ReasonNone, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
