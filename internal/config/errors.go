package config

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates a rule file extension with no parser.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParseError wraps a parse failure with the file it came from.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
