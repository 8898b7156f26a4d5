package persistence

import (
	"errors"
	"fmt"

	"github.com/surroundaustralia/rdfx/graph"
)

// Common persistence errors. Configuration errors are always detected
// before any I/O and are never retried; remote and auth errors are
// fatal and surfaced verbatim.
var (
	// ErrInvalidConfiguration covers bad schemes, missing identifiers,
	// comment/format mismatches and unknown format tokens.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument is returned for inputs outside a function's
	// accepted domain, such as a resolver path that is neither file
	// nor directory.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a named resource does not exist.
	// AssetExists converts this condition into false instead.
	ErrNotFound = errors.New("not found")

	// ErrAuth is returned when a backend rejects the configured
	// credentials.
	ErrAuth = errors.New("authentication failed")

	// ErrParse is returned when stored content cannot be decoded under
	// the assumed or detected format.
	ErrParse = errors.New("parse failed")

	// ErrRemote is returned for non-2xx responses and transport
	// failures against remote stores.
	ErrRemote = errors.New("remote operation failed")

	// ErrNotImplemented marks backend operations intentionally left
	// unfinished, distinct from remote failures.
	ErrNotImplemented = errors.New("not implemented")
)

// IsNotFound reports whether err is a missing-resource condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidConfiguration reports whether err is a pre-I/O
// configuration error.
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// invalidConfigf wraps ErrInvalidConfiguration with context.
func invalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// ParseError reports content that could not be decoded under the
// assumed or detected format. It matches ErrParse under errors.Is.
type ParseError struct {
	Format graph.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s content failed: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
