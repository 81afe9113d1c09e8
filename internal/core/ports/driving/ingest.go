package driving

import (
	"context"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

// IngestService loads extracted profile payloads into the store.
type IngestService interface {
	// Ingest parses each profile JSON file and upserts it by external id
	// (the file stem). Per-file failures are collected in the summary
	// without aborting the rest of the batch.
	Ingest(ctx context.Context, paths []string, extractorTag string) (*domain.IngestSummary, error)
}
