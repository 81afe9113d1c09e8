package services

import (
	"context"
	"fmt"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driving"
	"github.com/profiledex/profiledex-cli/internal/logger"
)

// Ensure BackfillService implements the interface.
var _ driving.BackfillService = (*BackfillService)(nil)

// BackfillService runs the embed-and-index batch job: select, flatten,
// embed, build one artifact, attach it.
type BackfillService struct {
	store     driven.ProfileStore
	embedder  driven.Embedder
	artifacts driven.VectorArtifacts
}

// NewBackfillService creates a new backfill service.
func NewBackfillService(
	store driven.ProfileStore,
	embedder driven.Embedder,
	artifacts driven.VectorArtifacts,
) *BackfillService {
	return &BackfillService{
		store:     store,
		embedder:  embedder,
		artifacts: artifacts,
	}
}

// Backfill selects records per mode, flattens and embeds them in store
// order, builds one index artifact from the resulting vectors, and then
// attaches the artifact reference to every selected record. The store is
// only written after the artifact file is durable, so a failed run
// leaves every record as it was.
func (s *BackfillService) Backfill(ctx context.Context, mode domain.BackfillMode) (*domain.BackfillSummary, error) {
	logger.Section("Backfill")
	logger.Debug("Mode: %s", mode)

	records, err := s.store.SelectForBackfill(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("selecting records: %w", err)
	}
	logger.Info("Selected %d record(s) for backfill", len(records))

	summary := &domain.BackfillSummary{
		Mode:          mode,
		SelectedCount: len(records),
	}
	if len(records) == 0 {
		return summary, nil
	}

	texts := make([]string, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		profile, err := domain.ParseProfile([]byte(rec.ProfileJSON))
		if err != nil {
			return nil, fmt.Errorf("parsing profile for record %d (%s): %w", rec.ID, rec.ExternalID, err)
		}
		text := profile.Flatten()
		if text == "" {
			return nil, fmt.Errorf("%w: record %d (%s) flattens to nothing", domain.ErrEmptyProfile, rec.ID, rec.ExternalID)
		}
		texts = append(texts, text)
		ids = append(ids, rec.ID)
	}

	logger.Debug("Embedding %d text(s) with model %s", len(texts), s.embedder.ModelName())
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding profiles: %w", err)
	}

	artifactPath, err := s.artifacts.Build(ctx, vectors)
	if err != nil {
		return nil, fmt.Errorf("building index artifact: %w", err)
	}
	logger.Info("Built index artifact %s", artifactPath)

	updated, err := s.store.AttachArtifact(ctx, ids, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("attaching artifact %s: %w", artifactPath, err)
	}

	summary.ProcessedCount = int(updated)
	summary.ArtifactPath = artifactPath
	summary.RecordIDs = ids
	return summary, nil
}
