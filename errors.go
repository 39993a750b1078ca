package metrics

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMetricTypeMismatch is returned when a caller asks for an instrument at a
// path where a container of a different kind is already registered. It is
// always surfaced to the caller; the registry never logs or swallows it.
type ErrMetricTypeMismatch struct {
	Path     Path
	Existing string
	Desired  string
}

func (e *ErrMetricTypeMismatch) Error() string {
	return fmt.Sprintf("metrics: %q is registered as %q, cannot register as %q", e.Path, e.Existing, e.Desired)
}

func newMetricTypeMismatch(path Path, existing, desired string) error {
	return errors.WithStack(&ErrMetricTypeMismatch{Path: path, Existing: existing, Desired: desired})
}

// IsMetricTypeMismatch reports whether err is (or wraps) an
// ErrMetricTypeMismatch.
func IsMetricTypeMismatch(err error) bool {
	var target *ErrMetricTypeMismatch
	return errors.As(err, &target)
}

// ErrInvalidParameter is returned by EWMA construction when window or
// interval fall outside the range the spec requires (window >= interval > 0).
type ErrInvalidParameter struct {
	Reason string
}

func (e *ErrInvalidParameter) Error() string {
	return fmt.Sprintf("metrics: invalid parameter: %s", e.Reason)
}

func newInvalidParameter(reason string) error {
	return errors.WithStack(&ErrInvalidParameter{Reason: reason})
}
