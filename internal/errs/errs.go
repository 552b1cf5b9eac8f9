// Package errs defines the typed error taxonomy shared by every component:
// a closed set of categories (spec §7), each carrying enough context for the
// orchestrator to decide retry vs. escalate without string-matching messages.
package errs

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of error categories from spec §7.
type Category string

const (
	CategoryConfiguration     Category = "configuration"
	CategoryAuthentication    Category = "authentication"
	CategoryAuthorization     Category = "authorization"
	CategoryRateLimit         Category = "rate_limit"
	CategoryNetwork           Category = "network"
	CategoryTimeout           Category = "timeout"
	CategoryVectorStore       Category = "vector_store"
	CategoryGraphStore        Category = "graph_store"
	CategoryEmbeddingProvider Category = "embedding_provider"
	CategoryParse             Category = "parse"
	CategoryValidation        Category = "validation"
	CategoryCircularRef       Category = "circular_reference"
	CategorySizeLimit         Category = "size_limit"
	CategoryDeadlock          Category = "deadlock"
	CategoryUnknown           Category = "unknown"
)

// RetrySuggestion returns the user-facing retry hint for a category.
func (c Category) RetrySuggestion() string {
	switch c {
	case CategoryNetwork, CategoryTimeout:
		return "Check your network connection and try again."
	case CategoryRateLimit:
		return "You are being rate limited; wait a moment and retry."
	case CategoryAuthentication, CategoryAuthorization:
		return "Check your credentials and permissions."
	case CategoryConfiguration:
		return "Review your configuration file for errors."
	case CategoryVectorStore, CategoryGraphStore, CategoryEmbeddingProvider:
		return "Verify the external service is reachable and retry."
	case CategorySizeLimit, CategoryCircularRef, CategoryValidation:
		return "Inspect the offending data; this will not succeed on retry."
	case CategoryDeadlock:
		return "A task exceeded its deadline; check downstream service health."
	case CategoryParse:
		return "The source file could not be parsed; it may be malformed."
	default:
		return "An unexpected error occurred."
	}
}

// CodeError is the common shape carried by every typed error in this package.
type CodeError struct {
	Category    Category
	Op          string
	Underlying  error
	Recoverable bool
	Timestamp   time.Time
}

func (e *CodeError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Category, e.Underlying)
	}
	return fmt.Sprintf("%s %s: %v", e.Category, e.Op, e.Underlying)
}

func (e *CodeError) Unwrap() error { return e.Underlying }

func (e *CodeError) IsRecoverable() bool { return e.Recoverable }

// New wraps err with a category and operation name.
func New(category Category, op string, err error) *CodeError {
	return &CodeError{
		Category:   category,
		Op:         op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithRecoverable marks the error retryable.
func (e *CodeError) WithRecoverable(recoverable bool) *CodeError {
	e.Recoverable = recoverable
	return e
}

// IndexingError is raised by the extractor when a store call fails partway
// through a batch; it always carries the counts achieved prior to failure so
// the orchestrator can report partial success (spec §4.2 "Failure model").
type IndexingError struct {
	CodeError
	FilePath       string
	NodesDone      int
	RelationsDone  int
}

// NewIndexingError builds a contextual indexing error with partial counts.
func NewIndexingError(op, filePath string, nodesDone, relationsDone int, err error) *IndexingError {
	return &IndexingError{
		CodeError: CodeError{
			Category:   CategoryGraphStore,
			Op:         op,
			Underlying: err,
			Timestamp:  time.Now(),
		},
		FilePath:      filePath,
		NodesDone:     nodesDone,
		RelationsDone: relationsDone,
	}
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("%s %s failed for %s after %d nodes/%d relationships: %v",
		e.Category, e.Op, e.FilePath, e.NodesDone, e.RelationsDone, e.Underlying)
}

// ValidationError is raised by the metadata validator (spec §4.3).
type ValidationError struct {
	CodeError
	Field string
}

func NewValidationError(category Category, field string, err error) *ValidationError {
	return &ValidationError{
		CodeError: CodeError{Category: category, Op: "validate_metadata", Underlying: err, Timestamp: time.Now()},
		Field:     field,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed for field %q: %v", e.Category, e.Field, e.Underlying)
}

// BatchFailure is raised by the orchestrator per spec §4.4's batch-failure
// policy. Severity distinguishes a wholesale failure from a partial one that
// still surfaces to the UI but does not discard the progress made.
type BatchFailure struct {
	CodeError
	Found     int
	Indexed   int
	Partial   bool
	FirstErr  string
}

func NewBatchFailure(category Category, found, indexed int, partial bool, firstErr error) *BatchFailure {
	msg := ""
	if firstErr != nil {
		msg = firstErr.Error()
	}
	return &BatchFailure{
		CodeError: CodeError{Category: category, Op: "batch_index", Underlying: firstErr, Timestamp: time.Now()},
		Found:     found,
		Indexed:   indexed,
		Partial:   partial,
		FirstErr:  msg,
	}
}

func (e *BatchFailure) Error() string {
	kind := "failure"
	if e.Partial {
		kind = "partial failure"
	}
	return fmt.Sprintf("batch %s: indexed %d/%d blocks (category %s): %s",
		kind, e.Indexed, e.Found, e.Category, e.FirstErr)
}

// StoreError wraps an error from the graph store, vector store, or embedding
// provider client with the category appropriate to the subsystem.
type StoreError struct {
	CodeError
	Subsystem string
}

func NewStoreError(subsystem string, category Category, op string, err error) *StoreError {
	return &StoreError{
		CodeError: CodeError{Category: category, Op: op, Underlying: err, Timestamp: time.Now()},
		Subsystem: subsystem,
	}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Subsystem, e.Category, e.Op, e.Underlying)
}

// Retryable reports whether err matches spec §4.5's retryable-error rules:
// common network error strings or substrings like "timeout", "rate limit",
// "temporary", "busy".
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pat := range []string{
		"econnreset", "etimedout", "enotfound", "econnrefused",
		"network", "timeout", "rate limit", "temporary", "busy",
	} {
		if strings.Contains(msg, pat) {
			return true
		}
	}
	var ce *CodeError
	for e := err; e != nil; {
		if c, ok := e.(*CodeError); ok {
			ce = c
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return ce != nil && ce.Recoverable
}
