package schema

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every ConfigurationError via errors.Is
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports an invalid table definition
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in table %s: %s", e.Table, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErr(table, reason string) error {
	return &ConfigurationError{Table: table, Reason: reason}
}
