package config

import (
	"github.com/cockroachdb/errors"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrInvalidConfig marks a ConfigurationError: invalid weights, negative
	// thresholds or an otherwise unusable engine configuration. Fatal.
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidConfig)
}
