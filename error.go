package mcpchat

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrSuccess Err = iota
	ErrNotFound
	ErrBadParameter
	ErrConfig
	ErrConnection
	ErrConnectionTimeout
	ErrCatalog
	ErrToolConflict
	ErrToolInvocation
	ErrMaxIterations
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrSuccess:
		return "success"
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrConfig:
		return "configuration error"
	case ErrConnection:
		return "connection failed"
	case ErrConnectionTimeout:
		return "connection timed out"
	case ErrCatalog:
		return "tool catalog unavailable"
	case ErrToolConflict:
		return "tool name conflict"
	case ErrToolInvocation:
		return "tool invocation failed"
	case ErrMaxIterations:
		return "maximum tool iterations reached"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}
