package offer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyText is returned when there is no candidate text to extract from.
var ErrEmptyText = errors.New("no candidate text provided")

// ExtractionError wraps any failure to turn text into a CandidateRecord.
type ExtractionError struct {
	Op  string // "input", "llm", "parse"
	Err error
}

func (e *ExtractionError) Error() string {
	return e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ValidationError reports a missing or unusable candidate field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s", e.Field)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
