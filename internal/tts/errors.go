package tts

import (
	"errors"
	"fmt"
)

// Common pipeline errors
var (
	// ErrNoEngineConfigured indicates no synthesis backend has been selected
	ErrNoEngineConfigured = errors.New("no TTS engine configured - set video.voice_synthesis to gtts or pyttsx3")

	// ErrInvalidEngine indicates an unknown engine was specified
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrFetch indicates the post could not be retrieved
	ErrFetch = errors.New("post fetch failed")

	// ErrNoContent indicates there is nothing narratable
	ErrNoContent = errors.New("no narratable content")

	// ErrBackendUnavailable indicates the selected backend is not installed or reachable
	ErrBackendUnavailable = errors.New("TTS backend unavailable")

	// ErrEmptyInput indicates blank text reached a backend
	ErrEmptyInput = errors.New("no text provided for speech generation")

	// ErrSynthesisFailed indicates synthesis operation failed
	ErrSynthesisFailed = errors.New("text synthesis failed")

	// ErrInvalidConfig indicates a configuration value could not be used
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCanceled indicates an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// TTSError represents a pipeline error with additional context
type TTSError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TTSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TTSError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error that corresponds to the error code.
func (e *TTSError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// ErrorCode identifies specific error types
type ErrorCode string

const (
	ErrorCodeFetch              ErrorCode = "FETCH_ERROR"
	ErrorCodeNoContent          ErrorCode = "NO_CONTENT"
	ErrorCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrorCodeEmptyInput         ErrorCode = "EMPTY_INPUT"
	ErrorCodeSynthesisFailed    ErrorCode = "SYNTHESIS_FAILED"
	ErrorCodeInvalidConfig      ErrorCode = "INVALID_CONFIG"
	ErrorCodeCanceled           ErrorCode = "CANCELED"
)

var codeSentinels = map[ErrorCode]error{
	ErrorCodeFetch:              ErrFetch,
	ErrorCodeNoContent:          ErrNoContent,
	ErrorCodeBackendUnavailable: ErrBackendUnavailable,
	ErrorCodeEmptyInput:         ErrEmptyInput,
	ErrorCodeSynthesisFailed:    ErrSynthesisFailed,
	ErrorCodeInvalidConfig:      ErrInvalidConfig,
	ErrorCodeCanceled:           ErrCanceled,
}

// NewTTSError creates a new error with context
func NewTTSError(code ErrorCode, message string, cause error) *TTSError {
	return &TTSError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *TTSError) WithContext(key string, value interface{}) *TTSError {
	e.Context[key] = value
	return e
}

// IsFatal returns true if the error aborts a whole run rather than one segment
func (e *TTSError) IsFatal() bool {
	switch e.Code {
	case ErrorCodeFetch,
		ErrorCodeNoContent,
		ErrorCodeInvalidConfig:
		return true
	default:
		return false
	}
}

// IsFatal reports whether err carries a batch-level code.
func IsFatal(err error) bool {
	var te *TTSError
	return errors.As(err, &te) && te.IsFatal()
}

// CodeOf extracts the error code from err, or "" if err is not a TTSError.
func CodeOf(err error) ErrorCode {
	var te *TTSError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// UserMessage returns a human-readable message for display screens.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var te *TTSError
	if !errors.As(err, &te) {
		return err.Error()
	}
	if te.Cause != nil {
		return fmt.Sprintf("%s: %v", te.Message, te.Cause)
	}
	return te.Message
}
