package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driving"
	"github.com/profiledex/profiledex-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads extracted profile payloads into the store.
type IngestService struct {
	store driven.ProfileStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(store driven.ProfileStore) *IngestService {
	return &IngestService{store: store}
}

// Ingest parses each profile JSON file and upserts it by external id.
// Per-file failures (unreadable file, malformed payload) are collected
// in the summary without aborting the rest of the batch.
func (s *IngestService) Ingest(ctx context.Context, paths []string, extractorTag string) (*domain.IngestSummary, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no profile files given", domain.ErrInvalidInput)
	}
	if extractorTag == "" {
		return nil, fmt.Errorf("%w: extractor tag is required", domain.ErrInvalidInput)
	}

	summary := &domain.IngestSummary{RunID: uuid.New().String()}
	logger.Section("Ingest")
	logger.Debug("Run %s: %d file(s), extractor %s", summary.RunID, len(paths), extractorTag)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.ingestOne(ctx, path, extractorTag); err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			summary.Failed++
			summary.Failures = append(summary.Failures, domain.IngestFailure{
				Path:  path,
				Error: err.Error(),
			})
			continue
		}
		summary.Succeeded++
	}

	logger.Info("Ingested %d profile(s), %d failure(s)", summary.Succeeded, summary.Failed)
	return summary, nil
}

func (s *IngestService) ingestOne(ctx context.Context, path, extractorTag string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	profile, err := domain.ParseProfile(data)
	if err != nil {
		return err
	}

	// Re-serialize so the stored payload is canonical regardless of the
	// source file's formatting.
	canonical, err := profile.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("serializing profile: %w", err)
	}

	rec := &domain.ProfileRecord{
		ExternalID:   externalID(path),
		SourcePath:   path,
		FullName:     profile.DisplayName(),
		ProfileJSON:  canonical,
		ExtractorTag: extractorTag,
	}
	return s.store.Upsert(ctx, rec)
}

// externalID derives the stable record identifier from the file name:
// the stem, with a trailing "_resume" marker stripped so repeated
// extraction output names map to the same person.
func externalID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, "_resume")
}
