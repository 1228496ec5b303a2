package models

import (
	"errors"
	"fmt"
)

var (
	ErrTransport       = errors.New("transport error")
	ErrParse           = errors.New("parse error")
	ErrValidation      = errors.New("validation error")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// TransportError is a network-level failure talking to an upstream provider:
// connection errors, timeouts and non-2xx statuses.
type TransportError struct {
	Source   string
	Identity string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Source, e.Identity, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ParseError is a malformed, short or non-numeric provider payload.
type ParseError struct {
	Source   string
	Identity string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: parse: %s: %v", e.Source, e.Identity, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s: parse: %s", e.Source, e.Identity, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError is bad configuration input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ErrorKind names the taxonomy bucket of err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse), errors.Is(err, ErrInvalidSnapshot):
		return "parse"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}
