package plan

import (
	"fmt"
	"strings"

	"github.com/abhisek/scorecard/internal/assessment"
)

const (
	genericTopic   = "the core"
	genericSubject = "your weakest subject"
)

// PrimaryFallback is the plan used when the provider answers but gives no
// usable steps. It names the subject's first weak topic.
func PrimaryFallback(subject assessment.SubjectRecord) []string {
	return []string{
		fmt.Sprintf("Spend 2 days revising %s concepts thoroughly.", firstWeakTopic(subject)),
		"Solve 20 basic level questions to gain confidence.",
		"If a question looks hard, skip it and come back later.",
	}
}

// SecondaryFallback is the plan used when the provider call fails.
func SecondaryFallback(subject assessment.SubjectRecord) []string {
	return []string{
		fmt.Sprintf("Read the chapter on %s again carefully.", subjectName(subject)),
		"Practice 15 simple questions without a timer.",
		"Focus on accuracy first, speed will come later.",
	}
}

func fallback(subject assessment.SubjectRecord, reason Reason, err error) Result {
	steps := PrimaryFallback(subject)
	if reason.Secondary() {
		steps = SecondaryFallback(subject)
	}
	return Result{
		Steps: steps,
		Outcome: Outcome{
			Source: SourceFallback,
			Reason: reason,
			Err:    err,
		},
		FocusSubject: subject.Name,
	}
}

func firstWeakTopic(subject assessment.SubjectRecord) string {
	for _, t := range subject.WeakTopics {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return genericTopic
}

func subjectName(subject assessment.SubjectRecord) string {
	if name := strings.TrimSpace(subject.Name); name != "" {
		return name
	}
	return genericSubject
}
