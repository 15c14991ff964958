package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %q for flag %s", "sideways", "-remainder"),
			expected: `invalid value "sideways" for flag -remainder`,
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestWorkerError(t *testing.T) {
	t.Parallel()
	err := WorkerError{Index: 2, Start: 500, End: 750, Cause: context.Canceled}

	if got, want := err.Error(), "worker 2 [500, 750): context canceled"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is should find context.Canceled through WorkerError")
	}
	if err.Unwrap() != context.Canceled {
		t.Error("Unwrap should return the original cause")
	}

	wrapped := WrapError(err, "run failed")
	var workerErr WorkerError
	if !errors.As(wrapped, &workerErr) {
		t.Fatal("errors.As should find WorkerError through WrapError")
	}
	if workerErr.Index != 2 {
		t.Errorf("expected index 2, got %d", workerErr.Index)
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "range sum", Limit: 30 * time.Second}
	if got, want := err.Error(), `operation "range sum" timed out after 30s`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "size", Message: "sum would overflow uint64"}
	if got, want := err.Error(), `validation error for "size": sum would overflow uint64`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMismatchError(t *testing.T) {
	t.Parallel()
	err := MismatchError{Index: 1, Got: 10, Expected: 11}
	if !strings.Contains(err.Error(), "does not match closed form 11") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("file not found"),
			format:      "failed to load env file",
			expectedMsg: "failed to load env file: file not found",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "operation timed out",
			expectedMsg: "operation timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("permission denied"),
			format:      "failed to write %s (%d bytes)",
			args:        []any{"report.txt", 128},
			expectedMsg: "failed to write report.txt (128 bytes): permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "operation canceled"), true},
		{"worker error over deadline", WorkerError{Cause: context.DeadlineExceeded}, true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", WorkerError{Cause: context.DeadlineExceeded}, ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", WrapError(context.Canceled, "interrupted"), ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "size"}, ExitErrorConfig},
		{"mismatch", MismatchError{}, ExitErrorMismatch},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleRunError(t *testing.T) {
	t.Parallel()

	t.Run("nil writes nothing", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if code := HandleRunError(nil, time.Second, &buf); code != ExitSuccess {
			t.Errorf("expected ExitSuccess, got %d", code)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		code := HandleRunError(context.DeadlineExceeded, 1500*time.Millisecond, &buf)
		if code != ExitErrorTimeout {
			t.Errorf("expected ExitErrorTimeout, got %d", code)
		}
		if !strings.Contains(buf.String(), "Timeout") {
			t.Errorf("expected timeout message, got %q", buf.String())
		}
	})

	t.Run("generic", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		code := HandleRunError(errors.New("disk full"), 0, &buf)
		if code != ExitErrorGeneric {
			t.Errorf("expected ExitErrorGeneric, got %d", code)
		}
		if !strings.Contains(buf.String(), "disk full") {
			t.Errorf("expected cause in message, got %q", buf.String())
		}
	})
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorMismatch": ExitErrorMismatch,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
