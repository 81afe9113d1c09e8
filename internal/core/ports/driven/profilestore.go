package driven

import (
	"context"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

// ProfileStore persists resume profile records.
//
// Ordering invariant: SelectForBackfill and LookupByArtifact must use the
// same sort key (ascending internal id). A query resolves an artifact
// position to a record purely by position, so the order records were
// selected at build time must equal the order rows are returned at query
// time for the same artifact.
type ProfileStore interface {
	// Upsert inserts or overwrites a record by external id. On update the
	// creation timestamp is preserved and the update timestamp refreshed;
	// the artifact reference is left untouched.
	Upsert(ctx context.Context, rec *domain.ProfileRecord) error

	// SelectForBackfill returns records to (re-)embed, ordered by
	// ascending internal id. Mode full selects every record; mode missing
	// selects only records with no artifact reference.
	SelectForBackfill(ctx context.Context, mode domain.BackfillMode) ([]domain.ProfileRecord, error)

	// AttachArtifact sets the artifact reference and update timestamp for
	// exactly the given ids, in a single transaction. Returns the number
	// of rows updated; an empty id list is a no-op returning 0.
	AttachArtifact(ctx context.Context, ids []int64, artifactPath string) (int64, error)

	// LookupByArtifact returns the identity rows tagged with the given
	// artifact, ordered by ascending internal id.
	LookupByArtifact(ctx context.Context, artifactPath string) ([]domain.ArtifactRow, error)
}
