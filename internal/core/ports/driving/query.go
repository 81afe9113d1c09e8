package driving

import (
	"context"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

// QueryService answers k-nearest-neighbour queries against one named
// index artifact.
type QueryService interface {
	// Resolve searches the artifact with the given pre-embedded query
	// vector and maps returned positions back to record identities when a
	// profile store is available.
	Resolve(ctx context.Context, query []float32, artifactPath string, topN int) ([]domain.Neighbor, error)
}
