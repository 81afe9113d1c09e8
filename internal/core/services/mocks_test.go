package services

import (
	"context"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockProfileStore implements driven.ProfileStore for testing.
type mockProfileStore struct {
	records    []domain.ProfileRecord
	rows       []domain.ArtifactRow
	upserted   []domain.ProfileRecord
	attachedTo string
	attachedID []int64

	selectErr error
	upsertErr error
	attachErr error
	lookupErr error
}

func (m *mockProfileStore) Upsert(_ context.Context, rec *domain.ProfileRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, *rec)
	return nil
}

func (m *mockProfileStore) SelectForBackfill(_ context.Context, _ domain.BackfillMode) ([]domain.ProfileRecord, error) {
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	return m.records, nil
}

func (m *mockProfileStore) AttachArtifact(_ context.Context, ids []int64, artifactPath string) (int64, error) {
	if m.attachErr != nil {
		return 0, m.attachErr
	}
	m.attachedID = append([]int64(nil), ids...)
	m.attachedTo = artifactPath
	return int64(len(ids)), nil
}

func (m *mockProfileStore) LookupByArtifact(_ context.Context, _ string) ([]domain.ArtifactRow, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.rows, nil
}

// mockEmbedder implements driven.Embedder for testing. It derives a
// deterministic unit vector per input so tests can predict distances.
type mockEmbedder struct {
	dims     int
	embedErr error
	calls    [][]string
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls = append(m.calls, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, m.dims)
		vec[i%m.dims] = 1
		vectors[i] = vec
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int { return m.dims }

func (m *mockEmbedder) ModelName() string { return "mock-embedding-model" }

// mockArtifacts implements driven.VectorArtifacts for testing.
type mockArtifacts struct {
	builtPath string
	built     [][]float32
	hits      []driven.VectorHit

	buildErr  error
	searchErr error
}

func (m *mockArtifacts) Build(_ context.Context, vectors [][]float32) (string, error) {
	if m.buildErr != nil {
		return "", m.buildErr
	}
	m.built = vectors
	return m.builtPath, nil
}

func (m *mockArtifacts) Search(_ context.Context, _ string, _ []float32, k int) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}
