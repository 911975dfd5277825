// Package telemetry holds the process-wide listener registry and
// auto-cast configuration consumed by the fragment compiler and the
// execution wrapper. The configuration is a single Config value installed
// with SetDefault and read with Default; there is no per-queryable or
// per-call override.
package telemetry

import "sync"

// CompiledQuery is a minimal mirror of sqlkit.CompiledQuery, duplicated
// here to avoid an import cycle between sqlkit and telemetry.
type CompiledQuery struct {
	Text   string
	Values []any
	Name   string
}

// QueryListener is invoked just before a compiled query is sent to the
// driver.
type QueryListener func(query CompiledQuery, transactionID string)

// ResultListener is invoked once a query's result has been fetched and
// transformed.
type ResultListener func(query CompiledQuery, transactionID string, elapsedNanos int64, err error)

// ProgressListener, DebugListener and WarningListener are slots for
// generator-side progress, debug and warning notifications; no code in
// this module invokes them.
type (
	ProgressListener func(message string)
	DebugListener    func(message string)
	WarningListener  func(message string)
)

// Config is the process-wide (or per-queryable) set of listeners and
// auto-cast flags consulted by sqlkit.
type Config struct {
	Query    QueryListener
	Result   ResultListener
	Progress ProgressListener
	Debug    DebugListener
	Warning  WarningListener

	// CastArrayParamsToJSON and CastObjectParamsToJSON control the
	// unset-cast default for sqlkit.Param: when true, an uncast array or
	// map value is JSON-serialized rather than passed through raw.
	CastArrayParamsToJSON  bool
	CastObjectParamsToJSON bool
}

var (
	mu      sync.RWMutex  //nolint:gochecknoglobals
	current = Config{} //nolint:gochecknoglobals
)

// SetDefault installs cfg as the process-wide default configuration.
// It is the caller's responsibility not to call this concurrently with
// in-flight queries.
func SetDefault(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	current = cfg
}

// Default returns the current process-wide configuration.
func Default() Config {
	mu.RLock()
	defer mu.RUnlock()

	return current
}
