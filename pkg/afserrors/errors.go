// Package afserrors provides structured errors for the AFS connector.
//
// # Overview
//
// Every failure inside the connector is described by an *Error carrying:
//   - a Type used for metrics labels and log fields
//   - a human-readable Message
//   - the underlying Cause, reachable through errors.Is / errors.As
//   - key-value Details (URL, service name, HTTP status...)
//   - the call stack captured where the error was created
//
// Connector failures are never returned to callers of Send: they are logged
// and replaced by a synthetic error reply. Configuration and validation
// failures are returned as regular errors.
//
// # Basic Usage
//
//	err := afserrors.New(afserrors.ErrorTypeConfig, "host is required").
//	    WithDetail("field", "host")
//
//	if _, err := client.Do(req); err != nil {
//	    return afserrors.Wrap(err, afserrors.ErrorTypeExecution, "request failed").
//	        WithDetail("url", req.URL.String())
//	}
package afserrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeInternal represents unexpected internal errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid caller input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents invalid connector configuration
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeConnection represents a request that could not be initialized
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeExecution represents a transfer that failed or returned nothing
	ErrorTypeExecution ErrorType = "execution"
	// ErrorTypeTimeout represents a transfer interrupted by a deadline
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeDecode represents a reply body that could not be decoded
	ErrorTypeDecode ErrorType = "decode"
)

// Error represents a structured error with context.
//
// Example:
//
//	err := &Error{
//	    Type:    ErrorTypeDecode,
//	    Message: "reply is empty",
//	    Details: map[string]interface{}{
//	        "url": "http://afs/search?afs:service=42",
//	    },
//	}
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is a single frame of the captured call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key, if any.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps err with a type and message. If err is already an *Error its
// stack is preserved. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of err, or ErrorTypeInternal when err is not
// a structured error.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
