package driving

import (
	"context"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

// BackfillService drives the embed-and-index batch job.
type BackfillService interface {
	// Backfill selects records per mode, flattens and embeds them, builds
	// one shared index artifact, and attaches its reference to every
	// selected record. All-or-nothing per invocation: the attach step
	// only runs after the artifact is durably written, so a failed run
	// leaves the store exactly as it was.
	Backfill(ctx context.Context, mode domain.BackfillMode) (*domain.BackfillSummary, error)
}
