package errors

import "fmt"

// ErrorCode identifies a failure class in the context resolution subsystem.
// Nothing here is fatal: codes exist so callers can decide whether to advance
// a fallback cascade, retry, skip a record, or degrade to a placeholder.
type ErrorCode string

const (
	ErrUnsupportedCapability ErrorCode = "UNSUPPORTED_CAPABILITY" // accessibility probe not implemented by the target
	ErrEmptyResult           ErrorCode = "EMPTY_RESULT"           // query succeeded but produced no usable text
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"        // caller-supplied parameters are unusable
	ErrPersistenceIO         ErrorCode = "PERSISTENCE_IO"         // journal read/write failure
	ErrMalformedRecord       ErrorCode = "MALFORMED_RECORD"       // persisted line cannot be decoded
	ErrBusy                  ErrorCode = "BUSY"                   // trigger arrived while a resolution is in flight
	ErrInternal              ErrorCode = "INTERNAL"
)

// Error is a structured error with a code and optional details.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewUnsupported creates an error for an accessibility capability the target
// element does not implement.
func NewUnsupported(capability string) *Error {
	return &Error{
		Code:    ErrUnsupportedCapability,
		Message: fmt.Sprintf("capability not supported: %s", capability),
		Details: map[string]any{"capability": capability},
	}
}

// NewEmptyResult creates an error for a query that yielded no text.
func NewEmptyResult(source string) *Error {
	return &Error{
		Code:    ErrEmptyResult,
		Message: fmt.Sprintf("no text from %s", source),
		Details: map[string]any{"source": source},
	}
}

// NewInvalidRequest creates an error for invalid caller parameters.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewPersistenceIO wraps a journal I/O failure.
func NewPersistenceIO(op string, err error) *Error {
	return &Error{
		Code:    ErrPersistenceIO,
		Message: fmt.Sprintf("journal %s: %v", op, err),
		Details: map[string]any{"op": op},
	}
}

// NewMalformedRecord creates an error for an undecodable journal line.
func NewMalformedRecord(line int, err error) *Error {
	return &Error{
		Code:    ErrMalformedRecord,
		Message: fmt.Sprintf("journal line %d: %v", line, err),
		Details: map[string]any{"line": line},
	}
}

// NewBusy creates an error for a trigger dropped because a resolution is
// already in flight.
func NewBusy() *Error {
	return &Error{
		Code:    ErrBusy,
		Message: "a context resolution is already in progress",
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is an Error with the given code.
func Is(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
