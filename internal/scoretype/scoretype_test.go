package scoretype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllCoversEveryScoreType(t *testing.T) {
	types := All()
	assert.Len(t, types, 26)

	seen := make(map[ScoreType]bool, len(types))
	for _, st := range types {
		assert.False(t, seen[st], "duplicate score type %s", st)
		seen[st] = true
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, st := range All() {
		parsed, err := Parse(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}

	_, err := Parse("BED_BREAKS")
	assert.Error(t, err)
}

func TestAggregationAssignment(t *testing.T) {
	for _, st := range All() {
		if st == HighestKillstreak {
			assert.Equal(t, Max, st.Aggregation())
		} else {
			assert.Equal(t, Sum, st.Aggregation(), "score type %s", st)
		}
	}
}

func TestDeltaUseless(t *testing.T) {
	for _, agg := range []Aggregation{Sum, Max} {
		assert.True(t, agg.DeltaUseless(0))
		assert.False(t, agg.DeltaUseless(1))
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		agg      Aggregation
		old, new uint32
		want     uint32
	}{
		{"sum adds", Sum, 3, 4, 7},
		{"sum from zero", Sum, 0, 5, 5},
		{"sum saturates", Sum, math.MaxUint32 - 1, 5, math.MaxUint32},
		{"max keeps higher old", Max, 9, 5, 9},
		{"max takes higher new", Max, 5, 9, 9},
		{"max of equals", Max, 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agg.Merge(tt.old, tt.new))
		})
	}
}

func TestRequiresSequentialConsistency(t *testing.T) {
	assert.False(t, Sum.RequiresSequentialConsistency())
	assert.False(t, Max.RequiresSequentialConsistency())
}
