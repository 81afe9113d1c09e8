package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionMismatchError_BatchPosition(t *testing.T) {
	err := &DimensionMismatchError{Position: 3, Expected: 1536, Actual: 8}
	assert.Equal(t, "vector at position 3 has dimension 8; expected 1536", err.Error())
}

func TestDimensionMismatchError_QueryPosition(t *testing.T) {
	err := &DimensionMismatchError{Position: QueryPosition, Expected: 1536, Actual: 3072}
	assert.Equal(t, "query vector has dimension 3072; index expects 1536", err.Error())
}

func TestDimensionMismatchError_AsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("building index: %w", &DimensionMismatchError{Position: 1, Expected: 4, Actual: 2})

	var dimErr *DimensionMismatchError
	require.True(t, errors.As(wrapped, &dimErr))
	assert.Equal(t, 1, dimErr.Position)
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Actual)
}

func TestParseBackfillMode(t *testing.T) {
	tests := []struct {
		input   string
		want    BackfillMode
		wantErr bool
	}{
		{"full", BackfillFull, false},
		{"missing", BackfillMissing, false},
		{"FULL", BackfillFull, false},
		{"  missing  ", BackfillMissing, false},
		{"", "", true},
		{"incremental", "", true},
	}

	for _, tt := range tests {
		mode, err := ParseBackfillMode(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, mode)
	}
}
