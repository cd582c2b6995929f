package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline failure taxonomy.
var (
	ErrEmptyQuestion    = errors.New("empty question")
	ErrUnknownLabel     = errors.New("relationship label outside vocabulary")
	ErrGenericLabel     = errors.New("generic relationship label forbidden")
	ErrEmptyTranslation = errors.New("translation produced no query")
)

// ResolutionError reports a failed question-to-query translation.
// Not retried automatically: the same question reproduces the same failure.
type ResolutionError struct {
	Question string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %s", e.Question, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ExecutionError reports a structured query the store rejected or failed.
// Carries the store's message verbatim for display.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute query: %s", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// InterpretationError reports a failed result summarization. Callers may
// degrade gracefully: rows remain displayable without an interpretation.
type InterpretationError struct {
	Question string
	Err      error
}

func (e *InterpretationError) Error() string {
	return fmt.Sprintf("interpret %q: %s", e.Question, e.Err)
}

func (e *InterpretationError) Unwrap() error { return e.Err }
