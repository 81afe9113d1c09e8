package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
	"github.com/profiledex/profiledex-cli/internal/core/ports/driven"
)

func TestResolve_RejectsNonPositiveTopN(t *testing.T) {
	svc := NewQueryService(&mockProfileStore{}, &mockArtifacts{})
	for _, n := range []int{0, -3} {
		_, err := svc.Resolve(context.Background(), []float32{1}, "/idx/a.flx", n)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "top-n %d", n)
	}
}

func TestResolve_RejectsEmptyQuery(t *testing.T) {
	svc := NewQueryService(&mockProfileStore{}, &mockArtifacts{})
	_, err := svc.Resolve(context.Background(), nil, "/idx/a.flx", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_JoinsPositionsToRows(t *testing.T) {
	store := &mockProfileStore{rows: []domain.ArtifactRow{
		{ID: 11, ExternalID: "ada", FullName: "Ada Lovelace"},
		{ID: 12, ExternalID: "bob", FullName: "Bob Martin"},
	}}
	artifacts := &mockArtifacts{hits: []driven.VectorHit{
		{Position: 1, Distance: 0.25},
		{Position: 0, Distance: 0.5},
	}}
	svc := NewQueryService(store, artifacts)

	neighbors, err := svc.Resolve(context.Background(), []float32{1, 0}, "/idx/a.flx", 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	assert.Equal(t, 1, neighbors[0].Rank)
	assert.Equal(t, int64(12), neighbors[0].RecordID)
	assert.Equal(t, "bob", neighbors[0].ExternalID)

	assert.Equal(t, 2, neighbors[1].Rank)
	assert.Equal(t, int64(11), neighbors[1].RecordID)
	assert.Equal(t, "ada", neighbors[1].ExternalID)
}

func TestResolve_OutOfRangePositionStaysUnresolved(t *testing.T) {
	// One row deleted since the artifact was built: position 1 has no
	// matching row anymore.
	store := &mockProfileStore{rows: []domain.ArtifactRow{
		{ID: 11, ExternalID: "ada", FullName: "Ada Lovelace"},
	}}
	artifacts := &mockArtifacts{hits: []driven.VectorHit{
		{Position: 1, Distance: 0.1},
		{Position: 0, Distance: 0.9},
	}}
	svc := NewQueryService(store, artifacts)

	neighbors, err := svc.Resolve(context.Background(), []float32{1}, "/idx/a.flx", 2)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)

	assert.False(t, neighbors[0].Resolved)
	assert.Equal(t, 1, neighbors[0].Position)
	assert.Zero(t, neighbors[0].RecordID)

	assert.True(t, neighbors[1].Resolved)
	assert.Equal(t, "ada", neighbors[1].ExternalID)
}

func TestResolve_NilStoreReturnsUnresolved(t *testing.T) {
	artifacts := &mockArtifacts{hits: []driven.VectorHit{{Position: 0, Distance: 0.5}}}
	svc := NewQueryService(nil, artifacts)

	neighbors, err := svc.Resolve(context.Background(), []float32{1}, "/idx/a.flx", 1)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	assert.False(t, neighbors[0].Resolved)
	assert.Equal(t, float32(0.5), neighbors[0].Distance)
}

func TestResolve_SearchErrorPropagates(t *testing.T) {
	artifacts := &mockArtifacts{searchErr: domain.ErrNotFound}
	svc := NewQueryService(&mockProfileStore{}, artifacts)

	_, err := svc.Resolve(context.Background(), []float32{1}, "/idx/ghost.flx", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_LookupErrorPropagates(t *testing.T) {
	store := &mockProfileStore{lookupErr: domain.ErrNotFound}
	artifacts := &mockArtifacts{hits: []driven.VectorHit{{Position: 0}}}
	svc := NewQueryService(store, artifacts)

	_, err := svc.Resolve(context.Background(), []float32{1}, "/idx/a.flx", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
