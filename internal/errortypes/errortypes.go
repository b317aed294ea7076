// Package errortypes provides error types and handling for the Sweven MCP server.
package errortypes

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType string

// Error types
const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeCredentials ErrorType = "credentials"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeRemote      ErrorType = "remote"
	ErrorTypeSession     ErrorType = "session"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError represents an application error with context
type AppError struct {
	Err       error
	Type      ErrorType
	Message   string
	StackInfo string
	Fields    map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Err.Error()
}

// Unwrap unwraps the error to support errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithField adds a field to the error for additional context
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields adds multiple fields to the error for additional context
func (e *AppError) WithFields(fields map[string]interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// captureStack captures the stack trace at the call site
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		// Skip testing and standard library frames
		if !strings.Contains(frame.File, "testing/") && !strings.Contains(frame.File, "/go/src/") {
			fmt.Fprintf(&builder, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		}
		if !more {
			break
		}
	}
	return builder.String()
}

// newAppError creates a new AppError with the given type, underlying error, and message
func newAppError(errType ErrorType, err error, message string) *AppError {
	return &AppError{
		Err:       err,
		Type:      errType,
		Message:   message,
		StackInfo: captureStack(),
		Fields:    make(map[string]interface{}),
	}
}

// ValidationError creates a new validation error
func ValidationError(err error, message string) *AppError {
	return newAppError(ErrorTypeValidation, err, message)
}

// CredentialsError creates a new credentials error
func CredentialsError(err error, message string) *AppError {
	return newAppError(ErrorTypeCredentials, err, message)
}

// AuthError creates a new authentication error
func AuthError(err error, message string) *AppError {
	return newAppError(ErrorTypeAuth, err, message)
}

// RemoteError creates a new remote API error
func RemoteError(err error, message string) *AppError {
	return newAppError(ErrorTypeRemote, err, message)
}

// SessionError creates a new session registry error
func SessionError(err error, message string) *AppError {
	return newAppError(ErrorTypeSession, err, message)
}

// PersistenceError creates a new persistence error
func PersistenceError(err error, message string) *AppError {
	return newAppError(ErrorTypePersistence, err, message)
}

// ConfigError creates a new configuration error
func ConfigError(err error, message string) *AppError {
	return newAppError(ErrorTypeConfig, err, message)
}

// InternalError creates a new internal error
func InternalError(err error, message string) *AppError {
	return newAppError(ErrorTypeInternal, err, message)
}

// LogError logs an AppError using the provided slog.Logger or the default slog logger.
// It logs the error message, type, stack trace, and any associated fields.
func LogError(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		args := []any{
			"type", string(appErr.Type),
		}
		if appErr.Err != nil {
			args = append(args, "original_error", appErr.Err.Error())
		}
		if appErr.StackInfo != "" {
			args = append(args, "stack", appErr.StackInfo)
		}
		for k, v := range appErr.Fields {
			args = append(args, k, v)
		}
		logger.Error(appErr.Message, args...)
	} else {
		logger.Error(err.Error(), "error", err)
	}
}

// IsType reports whether an error is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsCredentialsError checks if an error is a credentials error
func IsCredentialsError(err error) bool {
	return IsType(err, ErrorTypeCredentials)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return IsType(err, ErrorTypeAuth)
}

// IsRemoteError checks if an error is a remote API error
func IsRemoteError(err error) bool {
	return IsType(err, ErrorTypeRemote)
}

// IsSessionError checks if an error is a session registry error
func IsSessionError(err error) bool {
	return IsType(err, ErrorTypeSession)
}
