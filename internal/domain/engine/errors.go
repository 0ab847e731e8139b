package engine

import (
	"errors"
	"fmt"

	"gridgym/internal/domain/object"
)

var (
	ErrInvalidConfig = errors.New("invalid environment config")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidState  = errors.New("invalid engine state")
)

type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := ErrInvalidConfig.Error() + ": " + e.Field
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidConfig}
	}
	return []error{ErrInvalidConfig, e.Err}
}

func configErr(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type ActionError struct {
	Action int
	Err    error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %d", ErrInvalidAction, e.Action)
}

func (e *ActionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidAction}
	}
	return []error{ErrInvalidAction, e.Err}
}

// StateError reports a broken engine invariant, such as two blocking objects
// sharing a cell.
type StateError struct {
	Position object.Point
	Reason   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrInvalidState, e.Position, e.Reason)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
