package domain

import "fmt"

// ErrorKind classifies why a stage gave up on a contact.
type ErrorKind string

const (
	// KindRetryableExhausted marks a transient failure that outlived the
	// retry budget.
	KindRetryableExhausted ErrorKind = "retryable_exhausted"
	// KindNonRetryable marks malformed or missing required input.
	KindNonRetryable ErrorKind = "non_retryable"
	// KindSearchUnavailable marks a provider-level outage that persisted
	// through retries.
	KindSearchUnavailable ErrorKind = "search_unavailable"
)

// StageError is the terminal failure of one stage for one contact. The
// orchestrator records it in the manifest and stops the contact's chain;
// it never crosses into other chains.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

// NewStageError wraps a cause with the stage and kind the manifest needs.
func NewStageError(stage Stage, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
