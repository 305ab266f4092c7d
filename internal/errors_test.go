package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/state.db",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/state.db") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestGatewayError(t *testing.T) {
	tests := []struct {
		name       string
		err        *GatewayError
		wantSubstr []string
		wantIs     error
	}{
		{
			name: "with status",
			err: &GatewayError{
				Op:         "chat",
				URL:        "http://localhost:3000/api/chat",
				StatusCode: 500,
				Err:        ErrUnexpectedStatus,
			},
			wantSubstr: []string{"gateway error", "[chat]", "status 500", "/api/chat"},
			wantIs:     ErrUnexpectedStatus,
		},
		{
			name: "transport failure",
			err: &GatewayError{
				Op:  "history",
				URL: "http://localhost:3000/api/session/x/history",
				Err: ErrDecode,
			},
			wantSubstr: []string{"gateway error", "[history]"},
			wantIs:     ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.wantSubstr {
				if !strings.Contains(msg, s) {
					t.Errorf("GatewayError.Error() = %q, should contain %q", msg, s)
				}
			}
			if tt.err.StatusCode == 0 && strings.Contains(msg, "status") {
				t.Errorf("GatewayError.Error() = %q, should not mention a status", msg)
			}
			if !errors.Is(tt.err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantIs)
			}
		})
	}
}

func TestResetError(t *testing.T) {
	cause := &GatewayError{Op: "reset", StatusCode: 503, Err: ErrUnexpectedStatus}
	err := &ResetError{SessionID: "abc", Err: cause}

	if !strings.Contains(err.Error(), "reset error [abc]") {
		t.Errorf("ResetError.Error() = %q", err.Error())
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatal("ResetError should unwrap to GatewayError")
	}
	if gwErr.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", gwErr.StatusCode)
	}
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Error("ResetError should unwrap through to ErrUnexpectedStatus")
	}
}

func TestConfigError(t *testing.T) {
	originalErr := errors.New("must not be empty")
	err := &ConfigError{Key: "session.key", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "config error") {
		t.Errorf("ConfigError.Error() should contain 'config error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "session.key") {
		t.Errorf("ConfigError.Error() should contain key, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ConfigError.Unwrap() should return original error")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/session.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
