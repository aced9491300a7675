package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoSubjects is returned by Validate when a snapshot lists no subjects.
var ErrNoSubjects = errors.New("assessment has no subjects")

// Validate checks that a snapshot is usable for plan generation.
func (s Snapshot) Validate() error {
	if len(s.Subjects) == 0 {
		return ErrNoSubjects
	}
	for i, sub := range s.Subjects {
		if strings.TrimSpace(sub.Name) == "" {
			return fmt.Errorf("subject %d: name is required", i)
		}
		if _, err := ParseStatus(string(sub.Status)); err != nil {
			return fmt.Errorf("subject %q: %w", sub.Name, err)
		}
	}
	return nil
}

// Decode reads a JSON snapshot from r and validates it.
func Decode(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode assessment: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// LoadFile reads a JSON snapshot from path.
func LoadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open assessment file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
