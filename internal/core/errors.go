package core

import (
	"errors"
	"fmt"
	"strings"
)

// Row-level validation failures. The row is skipped and the batch continues.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidEmail = errors.New("invalid email format")
)

// Creation failures. ErrUnexpectedStatus and transport errors are retried;
// ErrRetriesExhausted is terminal for one record only.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Batch-level failures. Processing halts and no further rows are attempted.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMissingHeaders    = errors.New("empty or missing headers")
	ErrMissingColumns    = errors.New("missing expected columns")
	ErrUnexpected        = errors.New("unexpected error during batch")
)

// ErrNoCreator is returned by NewBatchReader when no UserCreator is configured.
var ErrNoCreator = errors.New("batch reader requires a user creator")

// SkippableRowError explains why the validator rejected a record.
type SkippableRowError struct {
	Field string
	Err   error // ErrMissingField or ErrInvalidEmail
}

func (e *SkippableRowError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.Field)
}

func (e *SkippableRowError) Unwrap() error {
	return e.Err
}

// TransientCreationError is one failed creation attempt.
type TransientCreationError struct {
	Attempt    int
	StatusCode int   // zero for transport failures
	Err        error // ErrUnexpectedStatus or the transport error
}

func (e *TransientCreationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("attempt %d: %v %d", e.Attempt, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("attempt %d: %v", e.Attempt, e.Err)
}

func (e *TransientCreationError) Unwrap() error {
	return e.Err
}

// FatalBatchError stops a batch. Kind is one of the batch-level sentinels,
// Err carries the underlying cause when there is one.
type FatalBatchError struct {
	Kind error
	Line int // source line, zero when not tied to a row
	Err  error
}

func (e *FatalBatchError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FatalBatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsFatal reports whether err ended a batch.
func IsFatal(err error) bool {
	var fatal *FatalBatchError
	return errors.As(err, &fatal)
}
