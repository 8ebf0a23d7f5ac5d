package generator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedDialect matches every UnsupportedDialectError via errors.Is
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrPrecondition matches every PreconditionError via errors.Is
	ErrPrecondition = errors.New("generation precondition not met")
)

// UnsupportedDialectError is returned for a dialect outside the registry
type UnsupportedDialectError struct {
	Dialect   string
	Supported []string
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect: %s (supported: %s)", e.Dialect, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedDialectError) Unwrap() error {
	return ErrUnsupportedDialect
}

// PreconditionError is returned when generation runs without its input
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
