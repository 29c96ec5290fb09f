// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the udpev library.

package api

import "fmt"

// Common errors used across the library. Callers are expected to test
// with errors.Is; every package wraps these with call-site context.
var (
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrNotFound          = fmt.Errorf("not found")
	ErrTransportFailure  = fmt.Errorf("transport failure")
	ErrTimeout           = fmt.Errorf("operation timeout")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrLoopRunning       = fmt.Errorf("event loop already running")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeNotFound
	ErrCodeTransportFailure
	ErrCodeTimeout
)

// sentinels maps codes to the sentinel each structured Error unwraps to.
var sentinels = map[ErrorCode]error{
	ErrCodeInvalidArgument:   ErrInvalidArgument,
	ErrCodeResourceExhausted: ErrResourceExhausted,
	ErrCodeNotFound:          ErrNotFound,
	ErrCodeTransportFailure:  ErrTransportFailure,
	ErrCodeTimeout:           ErrTimeout,
}

// Error represents a structured error with code and message.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap makes errors.Is(err, api.ErrNotFound) etc. work on structured errors.
func (e *Error) Unwrap() error {
	return sentinels[e.Code]
}

// NewError creates a new structured error.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
