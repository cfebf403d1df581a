// Package curatorerrors defines the typed error kinds described in
// spec.md §7: ConfigError, DiscoveryError, ReadError, ExtractError,
// PersistError (stats and index variants) and QueryError.
package curatorerrors

import "fmt"

// ConfigError wraps a failure to read or parse a project config file.
// Callers recover by falling back to defaults and logging a warning.
type ConfigError struct {
	Path       string
	Underlying error
}

func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Underlying: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error reading %s: %v", e.Path, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// DiscoveryError means the project root itself could not be walked.
// Fatal for the update in progress.
type DiscoveryError struct {
	Root       string
	Underlying error
}

func NewDiscoveryError(root string, err error) *DiscoveryError {
	return &DiscoveryError{Root: root, Underlying: err}
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot walk project root %s: %v", e.Root, e.Underlying)
}

func (e *DiscoveryError) Unwrap() error { return e.Underlying }

// ReadError is a per-file I/O failure. Recoverable: the batcher skips
// the file and continues.
type ReadError struct {
	Path       string
	Underlying error
}

func NewReadError(path string, err error) *ReadError {
	return &ReadError{Path: path, Underlying: err}
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Underlying)
}

func (e *ReadError) Unwrap() error { return e.Underlying }

// ExtractError means an extractor failed on a file. Recoverable: the
// file's prior contribution is dropped (remove_file already ran) and
// the update continues.
type ExtractError struct {
	Path       string
	Extractor  string
	Underlying error
}

func NewExtractError(path, extractor string, err error) *ExtractError {
	return &ExtractError{Path: path, Extractor: extractor, Underlying: err}
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extractor %s failed on %s: %v", e.Extractor, e.Path, e.Underlying)
}

func (e *ExtractError) Unwrap() error { return e.Underlying }

// PersistStatsError means the stats cache failed to save. Recoverable:
// warn and continue, the next run rebuilds fully.
type PersistStatsError struct {
	Path       string
	Underlying error
}

func NewPersistStatsError(path string, err error) *PersistStatsError {
	return &PersistStatsError{Path: path, Underlying: err}
}

func (e *PersistStatsError) Error() string {
	return fmt.Sprintf("failed to persist stats cache to %s: %v", e.Path, e.Underlying)
}

func (e *PersistStatsError) Unwrap() error { return e.Underlying }

// PersistIndexError means the semantic index failed to save. Surfaced
// to the caller; the in-memory index remains valid.
type PersistIndexError struct {
	Path       string
	Underlying error
}

func NewPersistIndexError(path string, err error) *PersistIndexError {
	return &PersistIndexError{Path: path, Underlying: err}
}

func (e *PersistIndexError) Error() string {
	return fmt.Sprintf("failed to persist semantic index to %s: %v", e.Path, e.Underlying)
}

func (e *PersistIndexError) Unwrap() error { return e.Underlying }

// QueryError covers a bad regex pattern or a reference to an unknown
// concept group. Suggestion, when non-empty, is an actionable "did you
// mean" hint (see internal/groups).
type QueryError struct {
	Query      string
	Reason     string
	Suggestion string
	Underlying error
}

func NewQueryError(query, reason string, err error) *QueryError {
	return &QueryError{Query: query, Reason: reason, Underlying: err}
}

func (e *QueryError) WithSuggestion(s string) *QueryError {
	e.Suggestion = s
	return e
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("query error: %s (%q)", e.Reason, e.Query)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" — did you mean %q?", e.Suggestion)
	}
	if e.Underlying != nil {
		msg += fmt.Sprintf(": %v", e.Underlying)
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Underlying }
