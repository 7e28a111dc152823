package pbx

import (
	"errors"
	"fmt"
)

// Sentinel errors for document operations. Callers match with errors.Is.
var (
	// ErrMalformed is returned for parse-time structural violations: unknown
	// record kinds, mis-shaped reference fields, dangling references. Fatal;
	// nothing is written when a document fails to parse.
	ErrMalformed = errors.New("malformed document")

	// ErrDuplicateIdentifier is returned when inserting a node whose
	// identifier is already present. Indicates a bug in the calling
	// operation, never expected in normal use.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrNotFound is returned when an operation names an identifier that is
	// not in the document. Indicates a bug in the calling operation.
	ErrNotFound = errors.New("not found")

	// ErrConflictingRequirement is returned when a package dependency is
	// requested with a version requirement different from one already
	// recorded for the same repository URL. Recoverable by the caller; the
	// document is left unchanged.
	ErrConflictingRequirement = errors.New("conflicting requirement")
)

// malformedf wraps ErrMalformed with positional or structural context.
func malformedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
