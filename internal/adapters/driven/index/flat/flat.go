// Package flat provides an exhaustive-search (flat) L2 vector index and
// its immutable on-disk artifact format.
package flat

import (
	"fmt"
	"sort"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
)

// Index holds one batch of equal-dimension vectors in insertion order.
// Position i corresponds to the i-th vector added at build time.
type Index struct {
	dim     int
	vectors [][]float32
}

// New validates the batch and builds an in-memory flat index over it.
// The batch must be non-empty with a uniform, non-zero dimension; a
// mismatching vector is reported with its position.
func New(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: no vectors provided, cannot build index", domain.ErrInvalidInput)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: vector dimension cannot be zero", domain.ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &domain.DimensionMismatchError{Position: i, Expected: dim, Actual: len(v)}
		}
	}

	copied := make([][]float32, len(vectors))
	for i, v := range vectors {
		copied[i] = append([]float32(nil), v...)
	}
	return &Index{dim: dim, vectors: copied}, nil
}

// Dimension returns the vector dimension of the index.
func (x *Index) Dimension() int { return x.dim }

// Len returns the number of vectors in the index.
func (x *Index) Len() int { return len(x.vectors) }

// Search returns the k nearest vectors to query by squared L2 distance,
// ascending, ties broken by lowest position. k greater than the index
// size returns every vector; k must be positive.
func (x *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be greater than 0, got %d", domain.ErrInvalidInput, k)
	}
	if len(query) != x.dim {
		return nil, &domain.DimensionMismatchError{
			Position: domain.QueryPosition,
			Expected: x.dim,
			Actual:   len(query),
		}
	}

	hits := make([]driven.VectorHit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = driven.VectorHit{Position: i, Distance: squaredL2(query, v)}
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Position < hits[b].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
