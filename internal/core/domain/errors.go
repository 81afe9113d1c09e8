package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist
	// (missing store file, missing index artifact, unknown record).
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// unknown backfill mode, a non-positive batch size or top-n, or a
	// stored payload that does not decode to a profile object.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyProfile indicates a record whose payload flattens to empty
	// text. Such a record cannot be embedded and aborts the whole batch.
	ErrEmptyProfile = errors.New("profile flattens to empty text")

	// ErrEmptyArtifact indicates an index artifact that contains no vectors.
	ErrEmptyArtifact = errors.New("index artifact is empty")

	// ErrUpstream indicates the embedding provider failed or returned an
	// inconsistent result (vector count not matching input count).
	ErrUpstream = errors.New("embedding provider error")
)

// DimensionMismatchError reports a vector whose dimension does not match
// the expected dimension. Position is the 0-based slot of the offending
// vector within a batch; QueryPosition marks a query vector checked
// against an artifact.
type DimensionMismatchError struct {
	Position int
	Expected int
	Actual   int
}

// QueryPosition is the Position value used when the mismatching vector is
// a query vector rather than a member of a build batch.
const QueryPosition = -1

func (e *DimensionMismatchError) Error() string {
	if e.Position == QueryPosition {
		return fmt.Sprintf("query vector has dimension %d; index expects %d", e.Actual, e.Expected)
	}
	return fmt.Sprintf("vector at position %d has dimension %d; expected %d", e.Position, e.Actual, e.Expected)
}
