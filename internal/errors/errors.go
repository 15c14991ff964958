package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the run exceeded its deadline.
	ExitErrorMismatch = 3   // Indicates a partial sum disagreed with its closed form.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// WorkerError records which worker failed and over which half-open range,
// while preserving the original cause for errors.Is / errors.As.
type WorkerError struct {
	// Index is the worker index in spawn order.
	Index int
	// Start and End delimit the worker's range [Start, End).
	Start, End uint64
	// Cause is the underlying error, usually a context error.
	Cause error
}

// Error returns a message naming the worker and its range.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d [%d, %d): %v", e.Index, e.Start, e.End, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e WorkerError) Unwrap() error { return e.Cause }

// TimeoutError represents a run that exceeded its configured deadline.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MismatchError reports a partial sum that disagrees with the closed-form
// value for the same range. A negative Index refers to the aggregate total.
type MismatchError struct {
	Index    int
	Got      uint64
	Expected uint64
}

func (e MismatchError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("total sum %d does not match closed form %d", e.Got, e.Expected)
	}
	return fmt.Sprintf("worker %d: partial sum %d does not match closed form %d", e.Index, e.Got, e.Expected)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error returned by a run to a process exit code.
func ExitCodeFor(err error) int {
	var (
		timeoutErr  TimeoutError
		configErr   ConfigError
		validErr    ValidationError
		mismatchErr MismatchError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validErr):
		return ExitErrorConfig
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}

// HandleRunError writes a one-line diagnostic for err to out and returns the
// matching exit code. A nil error writes nothing and returns ExitSuccess.
func HandleRunError(err error, elapsed time.Duration, out io.Writer) int {
	code := ExitCodeFor(err)
	switch code {
	case ExitSuccess:
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Timeout. The run exceeded its deadline after %s.\n", elapsed.Round(time.Millisecond))
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Status: Canceled after %s.\n", elapsed.Round(time.Millisecond))
	default:
		fmt.Fprintf(out, "Status: Failure. %v\n", err)
	}
	return code
}
