package domain

import (
	"errors"
	"fmt"
)

// ErrConflict signals an insert that collided with an existing URL. The
// orchestrator converts it into a duplicate count instead of failing.
var ErrConflict = errors.New("article url already exists")

// ErrNotFound is returned by repository lookups with no matching row.
var ErrNotFound = errors.New("not found")

// ConfigurationError marks invalid static setup (e.g. a category with no
// sources). It is the only error class allowed to be fatal.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// FailureReason classifies per-source fetch failures.
type FailureReason string

const (
	FailureNetwork FailureReason = "network_error"
	FailureParse   FailureReason = "parse_error"
)

// FetchFailure is a per-source failure captured as a value. It never
// aborts sibling sources; the orchestrator counts it and moves on.
type FetchFailure struct {
	Source string
	Reason FailureReason
	Err    error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", f.Source, f.Reason, f.Err)
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// ScoreRangeError reports a sub-score outside 0-100. The article stays
// unscored rather than mislabeled.
type ScoreRangeError struct {
	Field string
	Value int
}

func (e *ScoreRangeError) Error() string {
	return fmt.Sprintf("score %s out of range: %d", e.Field, e.Value)
}
