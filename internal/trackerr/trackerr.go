package trackerr

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeIOFailure       Code = "IO_FAILURE"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeConfigInvalid   Code = "CONFIG_INVALID"
)

// Error is a coded error carrying optional details and a wrapped cause.
type Error struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value pair to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// Is reports whether any error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// IOFailure wraps a filesystem error for path.
func IOFailure(op, path string, err error) *Error {
	return Wrap(err, CodeIOFailure, fmt.Sprintf("failed to %s data file - %s", op, path)).
		WithDetail("path", path).
		WithDetail("op", op)
}

// CorruptRecord reports a data file whose contents cannot be decoded.
func CorruptRecord(path string, err error) *Error {
	return Wrap(err, CodeIOFailure, fmt.Sprintf("failed to read data file - %s", path)).
		WithDetail("path", path)
}

// IllegalArgument reports an unrecognized positional token.
func IllegalArgument(token string) *Error {
	return New(CodeInvalidArgument, fmt.Sprintf("illegal argument - %s", token)).
		WithDetail("argument", token)
}

// MissingArgument reports an absent (or surplus) positional token.
func MissingArgument() *Error {
	return New(CodeInvalidArgument, "missing required positional argument")
}

// ConfigInvalid reports a configuration that could not be loaded.
func ConfigInvalid(reason string, err error) *Error {
	return Wrap(err, CodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}
