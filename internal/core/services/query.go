package services

import (
	"context"
	"fmt"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driving"
	"github.com/profiledex/profiledex-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers nearest-neighbour queries against one index
// artifact and joins positions back to record identities.
type QueryService struct {
	store     driven.ProfileStore
	artifacts driven.VectorArtifacts
}

// NewQueryService creates a new query service. The store is optional
// (can be nil); without it neighbours are returned unresolved, carrying
// only position and distance.
func NewQueryService(store driven.ProfileStore, artifacts driven.VectorArtifacts) *QueryService {
	return &QueryService{
		store:     store,
		artifacts: artifacts,
	}
}

// Resolve searches the artifact with the given query vector and maps
// returned positions to record identities. Records are fetched by
// artifact reference in ascending id order, the same order the vectors
// were laid out at build time, so position i in the artifact is row i of
// the lookup. A position outside the lookup (rows deleted since the
// build, or no store at all) stays unresolved rather than failing the
// query.
func (s *QueryService) Resolve(ctx context.Context, query []float32, artifactPath string, topN int) ([]domain.Neighbor, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top-n must be greater than 0, got %d", domain.ErrInvalidInput, topN)
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}

	logger.Section("Query")
	logger.Debug("Artifact: %s, top-n: %d, query dim: %d", artifactPath, topN, len(query))

	hits, err := s.artifacts.Search(ctx, artifactPath, query, topN)
	if err != nil {
		return nil, fmt.Errorf("searching artifact %s: %w", artifactPath, err)
	}

	var rows []domain.ArtifactRow
	if s.store != nil {
		rows, err = s.store.LookupByArtifact(ctx, artifactPath)
		if err != nil {
			return nil, fmt.Errorf("looking up artifact records: %w", err)
		}
		logger.Debug("Resolved %d record row(s) for artifact", len(rows))
	}

	neighbors := make([]domain.Neighbor, 0, len(hits))
	for i, hit := range hits {
		n := domain.Neighbor{
			Rank:     i + 1,
			Distance: hit.Distance,
			Position: hit.Position,
		}
		if hit.Position >= 0 && hit.Position < len(rows) {
			row := rows[hit.Position]
			n.Resolved = true
			n.RecordID = row.ID
			n.ExternalID = row.ExternalID
			n.FullName = row.FullName
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}
