package generator

import (
	"errors"
	"fmt"
)

var (
	ErrNilDatabase  = errors.New("generator: database schema is nil")
	ErrEmptyPackage = errors.New("generator: output package name is empty")
)

// GeneratorError wraps a failure emitting source for a specific table or
// type, carrying enough context for a caller to know which object to fix
// in the database before re-running the generator.
type GeneratorError struct {
	Op     string
	Object string
	Err    error
}

func (e *GeneratorError) Error() string {
	if e.Object != "" {
		return fmt.Sprintf("generator.%s: %s: %v", e.Op, e.Object, e.Err)
	}

	return fmt.Sprintf("generator.%s: %v", e.Op, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

func newGeneratorError(op, object string, err error) *GeneratorError {
	return &GeneratorError{Op: op, Object: object, Err: err}
}
