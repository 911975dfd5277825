package sqlkit

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the engine. Propagation is fail-fast: the engine
// never retries, and listener invocation errors propagate synchronously.
var (
	ErrAlienExpression    = errors.New("sqlkit: value is not a valid fragment expression")
	ErrSelfWithoutColumn  = errors.New("sqlkit: Self used outside a column-bound context")
	ErrParentWithoutTable = errors.New("sqlkit: parent column reference used outside a lateral sub-query")
	ErrBadOrderDirection  = errors.New("sqlkit: order direction must be ASC or DESC")
	ErrBadOrderNulls      = errors.New("sqlkit: order nulls must be FIRST or LAST")
	ErrNotExactlyOne      = errors.New("sqlkit: query did not return exactly one row")
)

// NotExactlyOneError wraps ErrNotExactlyOne with the compiled query that
// produced it, so callers can log/diagnose which query misbehaved.
type NotExactlyOneError struct {
	Query CompiledQuery
}

func (e *NotExactlyOneError) Error() string {
	return fmt.Sprintf("sqlkit: expected exactly one row, query: %s", e.Query.Text)
}

func (e *NotExactlyOneError) Unwrap() error { return ErrNotExactlyOne }
