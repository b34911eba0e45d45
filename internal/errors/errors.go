package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of a user-visible failure.
type Kind int

const (
	KindCameraUnavailable Kind = iota
	KindFrameReadFailure
	KindInvalidExport
	KindInvalidTaskInput
	KindConfig
	KindStorage
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindCameraUnavailable:
		return "camera_unavailable"
	case KindFrameReadFailure:
		return "frame_read_failure"
	case KindInvalidExport:
		return "invalid_export"
	case KindInvalidTaskInput:
		return "invalid_task_input"
	case KindConfig:
		return "config"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// AppError is a recoverable failure surfaced to the user.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same kind.
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Kind == appErr.Kind
	}
	return false
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewCameraUnavailable reports a camera that cannot be opened or is not allowed here.
func NewCameraUnavailable(message string, cause error) *AppError {
	return &AppError{Kind: KindCameraUnavailable, Message: message, Cause: cause}
}

// NewFrameReadFailure reports a frame read that failed mid-session.
func NewFrameReadFailure(cause error) *AppError {
	return &AppError{Kind: KindFrameReadFailure, Message: "camera read failed", Cause: cause}
}

// NewInvalidExport reports an export request that cannot produce a file.
func NewInvalidExport(message string, cause error) *AppError {
	return &AppError{Kind: KindInvalidExport, Message: message, Cause: cause}
}

// NewInvalidTaskInput reports rejected to-do list input.
func NewInvalidTaskInput(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Kind:    KindInvalidTaskInput,
		Message: reason,
		Context: map[string]interface{}{
			"field": field,
			"value": value,
		},
	}
}

// NewConfigError reports an unreadable or malformed configuration.
func NewConfigError(message string, cause error) *AppError {
	return &AppError{Kind: KindConfig, Message: message, Cause: cause}
}

// NewStorageError reports a failure of the event log store.
func NewStorageError(operation string, cause error) *AppError {
	return &AppError{
		Kind:    KindStorage,
		Message: fmt.Sprintf("log store operation failed: %s", operation),
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind checks if the error chain contains an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind == kind
	}
	return false
}

// UserMessage returns the text shown on the dashboard notice line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	switch appErr.Kind {
	case KindCameraUnavailable:
		return "Camera unavailable: " + appErr.Message
	case KindFrameReadFailure:
		return "Camera read failed. Tracking stopped."
	case KindInvalidExport:
		return appErr.Message
	case KindInvalidTaskInput:
		return appErr.Message
	case KindConfig:
		return "Configuration problem: " + appErr.Message
	case KindStorage:
		return "Log storage problem: " + appErr.Message
	default:
		return appErr.Message
	}
}
