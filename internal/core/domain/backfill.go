package domain

import (
	"fmt"
	"strings"
)

// BackfillMode selects which records a backfill run (re-)embeds.
type BackfillMode string

const (
	// BackfillFull re-embeds every record into a fresh artifact.
	BackfillFull BackfillMode = "full"

	// BackfillMissing embeds only records with no artifact reference.
	// A record that already points at an artifact is skipped even if its
	// payload changed since it was embedded; refreshing stale rows is an
	// explicit full run.
	BackfillMissing BackfillMode = "missing"
)

// ParseBackfillMode normalizes and validates a user-supplied mode string.
func ParseBackfillMode(s string) (BackfillMode, error) {
	switch mode := BackfillMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case BackfillFull, BackfillMissing:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: mode must be either %q or %q, got %q",
			ErrInvalidInput, BackfillFull, BackfillMissing, s)
	}
}

// BackfillSummary reports the outcome of one backfill invocation.
// ArtifactPath is empty when no records were selected and no index was
// built.
type BackfillSummary struct {
	Mode           BackfillMode `json:"mode"`
	SelectedCount  int          `json:"selected_count"`
	ProcessedCount int          `json:"processed_count"`
	ArtifactPath   string       `json:"artifact_path,omitempty"`
	RecordIDs      []int64      `json:"record_ids,omitempty"`
}
