package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the catalog file does not exist.
var ErrNotFound = errors.New("catalog file not found")

// ParseError reports a catalog that exists but could not be read as a table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("error during catalog parsing: %v", e.Err)
	}
	return fmt.Sprintf("error during catalog parsing (%s): %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
