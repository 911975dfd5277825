// Package util holds small helpers shared across sqlkit's packages.
package util

import "fmt"

// WrapError wraps err with an operation label using the standard
// "%s: %w" convention, so callers can still errors.Is/errors.As through it.
// Returns nil if err is nil, so call sites can wrap unconditionally.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}
