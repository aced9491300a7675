package plan

// Source says where the returned steps came from.
type Source string

const (
	SourceProvided Source = "provided"
	SourceFallback Source = "fallback"
)

// Reason explains why a fallback plan was used.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonProviderError Reason = "provider-error"
	ReasonMalformed     Reason = "malformed"
	ReasonEmptyPlan     Reason = "empty-plan"
	ReasonShortPlan     Reason = "short-plan"
	ReasonNoSubjects    Reason = "no-subjects"
	ReasonNoProvider    Reason = "no-provider"
)

// Secondary reports whether the reason maps to the secondary fallback
// (hard failure) rather than the primary one (usable but empty response).
func (r Reason) Secondary() bool {
	switch r {
	case ReasonProviderError, ReasonMalformed, ReasonNoSubjects, ReasonNoProvider:
		return true
	}
	return false
}

// Outcome records how a plan was produced.
type Outcome struct {
	Source Source
	Reason Reason
	// Err is the failure that caused a fallback, if any. It is kept for
	// logging and never returned to callers of GeneratePlan.
	Err error
}

// FellBack reports whether a fallback plan was used.
func (o Outcome) FellBack() bool {
	return o.Source == SourceFallback
}

// Result is the output of GeneratePlan. Steps always holds exactly
// StepCount non-empty strings.
type Result struct {
	Steps        []string
	Outcome      Outcome
	FocusSubject string
}

func provided(steps []string, focus string) Result {
	return Result{
		Steps:        steps,
		Outcome:      Outcome{Source: SourceProvided},
		FocusSubject: focus,
	}
}
