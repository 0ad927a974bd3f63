package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(SnapshotInvalid, "failed to decode snapshot")
	if got := err.Error(); got != "[SNAPSHOT_INVALID] failed to decode snapshot" {
		t.Errorf("unexpected message %q", got)
	}

	wrapped := Wrap(StorageUnavailable, "failed to open run store", fmt.Errorf("disk full"))
	if !strings.Contains(wrapped.Error(), "disk full") {
		t.Errorf("expected cause in message, got %q", wrapped.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(RunNotFound, "run %s not found", "run-42")
	if err.Message != "run run-42 not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(StorageUnavailable, "failed to open run store", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if New(InternalError, "x").Unwrap() != nil {
		t.Error("expected nil cause for unwrapped error")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"direct", New(WeightsInvalid, "bad weights"), WeightsInvalid},
		{"wrapped in fmt", fmt.Errorf("context: %w", New(RunNotFound, "missing")), RunNotFound},
		{"foreign error", fmt.Errorf("plain"), InternalError},
		{"nil-safe foreign", stderrors.New("other"), InternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := New(ChangeRequestInvalid, "description required")
	if !HasCode(err, ChangeRequestInvalid) {
		t.Error("expected HasCode to match")
	}
	if HasCode(err, SnapshotInvalid) {
		t.Error("expected HasCode to reject other codes")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(SnapshotInvalid, "bad snapshot").WithDetails(map[string]interface{}{"line": 3})
	details, ok := err.Details.(map[string]interface{})
	if !ok || details["line"] != 3 {
		t.Errorf("unexpected details %v", err.Details)
	}
}
