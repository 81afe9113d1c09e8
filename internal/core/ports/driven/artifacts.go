package driven

import "context"

// VectorHit is one exhaustive-search result: the 0-based slot of the
// matched vector within the artifact and its squared L2 distance to the
// query.
type VectorHit struct {
	Position int
	Distance float32
}

// VectorArtifacts builds and searches immutable vector index artifacts.
// An artifact holds exactly one batch of equal-dimension vectors in the
// order they were added; once written it is never mutated, and a new
// build always produces a new file.
type VectorArtifacts interface {
	// Build validates the batch (non-empty, uniform non-zero dimension),
	// writes a new timestamp-named artifact, and returns its path. The
	// file only becomes visible on success.
	Build(ctx context.Context, vectors [][]float32) (string, error)

	// Search performs exhaustive nearest-neighbour search against the
	// named artifact, returning up to k hits ascending by distance, ties
	// broken by position. k is clamped to the artifact size.
	Search(ctx context.Context, path string, query []float32, k int) ([]VectorHit, error)
}
