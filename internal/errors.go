package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned when the controller is used before Start
	ErrNotStarted = errors.New("conversation not started")
	// ErrAlreadyStarted is returned by a second call to Start
	ErrAlreadyStarted = errors.New("conversation already started")
	// ErrEmptyInput is returned when a send carries only whitespace
	ErrEmptyInput = errors.New("empty input")
	// ErrRequestInFlight is returned while a chat turn is awaiting its reply
	ErrRequestInFlight = errors.New("a request is already in flight")
	// ErrResetInProgress is returned while a reset is running
	ErrResetInProgress = errors.New("reset in progress")

	// ErrUnexpectedStatus marks a non-2xx backend response
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrDecode marks a response body that could not be decoded
	ErrDecode = errors.New("decode failed")
	// ErrEmptyAnswer marks a chat response without answer text
	ErrEmptyAnswer = errors.New("empty answer")
)

// StorageError represents errors accessing the durable state store
type StorageError struct {
	Path string
	Op   string // "open", "get", "set", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// GatewayError represents a failed round trip to the backend
type GatewayError struct {
	Op         string // "history", "chat", "reset"
	URL        string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway error [%s] %s (status %d): %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway error [%s] %s: %v", e.Op, e.URL, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// ResetError represents a reset that left the session untouched
type ResetError struct {
	SessionID string
	Err       error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset error [%s]: %v", e.SessionID, e.Err)
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
