package flat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profiledex/profiledex-cli/internal/core/domain"
)

func TestNew_RejectsEmptyBatch(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New([][]float32{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_RejectsZeroDimension(t *testing.T) {
	_, err := New([][]float32{{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_RejectsMixedDimensions(t *testing.T) {
	_, err := New([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 1},
	})

	var dimErr *domain.DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Position)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Actual)
}

func TestNew_CopiesVectors(t *testing.T) {
	source := [][]float32{{1, 0}, {0, 1}}
	index, err := New(source)
	require.NoError(t, err)

	// Mutating the caller's slice must not affect search results.
	source[0][0] = 99

	hits, err := index.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, hits[0].Position)
	assert.Equal(t, float32(0), hits[0].Distance)
}

func TestSearch_ExactMatchRanksFirst(t *testing.T) {
	index, err := New([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)

	hits, err := index.Search([]float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 1, hits[0].Position)
	assert.Equal(t, float32(0), hits[0].Distance)
	// The two remaining unit vectors are equidistant; ties break by
	// position.
	assert.Equal(t, 0, hits[1].Position)
	assert.Equal(t, 2, hits[2].Position)
	assert.Equal(t, hits[1].Distance, hits[2].Distance)
}

func TestSearch_DistancesAscending(t *testing.T) {
	index, err := New([][]float32{
		{0, 0},
		{3, 4},
		{1, 1},
	})
	require.NoError(t, err)

	hits, err := index.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, []int{hits[0].Position, hits[1].Position, hits[2].Position})
	assert.Equal(t, float32(0), hits[0].Distance)
	assert.Equal(t, float32(2), hits[1].Distance)
	assert.Equal(t, float32(25), hits[2].Distance)
}

func TestSearch_ClampsK(t *testing.T) {
	index, err := New([][]float32{{1}, {2}})
	require.NoError(t, err)

	hits, err := index.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_RejectsNonPositiveK(t *testing.T) {
	index, err := New([][]float32{{1}})
	require.NoError(t, err)

	for _, k := range []int{0, -1} {
		_, err := index.Search([]float32{0}, k)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "k=%d", k)
	}
}

func TestSearch_RejectsQueryDimensionMismatch(t *testing.T) {
	index, err := New([][]float32{{1, 0, 0}})
	require.NoError(t, err)

	_, err = index.Search([]float32{1, 0}, 1)

	var dimErr *domain.DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, domain.QueryPosition, dimErr.Position)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Actual)
}

func TestIndex_Accessors(t *testing.T) {
	index, err := New([][]float32{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 2, index.Dimension())
	assert.Equal(t, 3, index.Len())
}
