package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks missing or contradictory input data. It is fatal for
// a planning run and is never retried.
var ErrConfiguration = errors.New("configuration error")

// ConfigErrorf formats a message and wraps it with ErrConfiguration.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
