package assessment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status classifies how a student performed in a subject.
type Status string

const (
	StatusWeak    Status = "weak"
	StatusAverage Status = "average"
	StatusStrong  Status = "strong"
	StatusGood    Status = "good"
)

// ParseStatus converts a case-insensitive string to a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusWeak, StatusAverage, StatusStrong, StatusGood:
		return st, nil
	default:
		return "", fmt.Errorf("unknown subject status %q", s)
	}
}

// UnmarshalJSON accepts any casing of a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// SubjectRecord is one subject's result within an assessment.
type SubjectRecord struct {
	Name         string   `json:"name"`
	Status       Status   `json:"status"`
	WeakTopics   []string `json:"weakTopics"`
	StrongTopics []string `json:"strongTopics"`

	// Optional display fields. The plan service ignores them.
	Score      int    `json:"score,omitempty"`
	TotalScore int    `json:"totalScore,omitempty"`
	Accuracy   int    `json:"accuracy,omitempty"`   // percent
	Percentile int    `json:"percentile,omitempty"` // 0-100
	TimeSpent  string `json:"timeSpent,omitempty"`
}

// Snapshot is a read-only view of one student's assessment results.
type Snapshot struct {
	StudentName string          `json:"studentName"`
	Subjects    []SubjectRecord `json:"subjects"`

	// Summary fields used by the dashboard and HTTP surfaces.
	OverallStatus      string `json:"overallStatus,omitempty"`
	Marks              int    `json:"marks,omitempty"`
	TotalMarks         int    `json:"totalMarks,omitempty"`
	Percentile         int    `json:"percentile,omitempty"`
	GoalPercentile     int    `json:"goalPercentile,omitempty"`
	Rank               int    `json:"rank,omitempty"`
	TotalStudents      int    `json:"totalStudents,omitempty"`
	OverallAccuracy    int    `json:"overallAccuracy,omitempty"`
	CorrectCount       int    `json:"correctCount,omitempty"`
	IncorrectCount     int    `json:"incorrectCount,omitempty"`
	UnattemptedCount   int    `json:"unattemptedCount,omitempty"`
	AvgTimePerQuestion string `json:"avgTimePerQuestion,omitempty"`
}
