// internal/damage/lengths_test.go
package damage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLengthHistogram(t *testing.T) {
	h := NewLengthHistogram(100)
	var cond ConditionSet
	cond.Add(Cond5C2T)

	h.Record(42, cond)
	h.Record(42, 0)
	h.Record(99, 0)

	require.Equal(t, uint64(2), h.N[42])
	require.Equal(t, uint64(1), h.Cond[Cond5C2T][42])
	require.Zero(t, h.Cond[Cond3G2A][42])
	require.Equal(t, 99, h.MaxObserved())
}

func TestLengthHistogramDropsOverflow(t *testing.T) {
	h := NewLengthHistogram(100)
	h.Record(100, 0)
	h.Record(4096, 0)
	require.Equal(t, -1, h.MaxObserved())
}

func TestLengthHistogramEmpty(t *testing.T) {
	h := NewLengthHistogram(100)
	require.Equal(t, -1, h.MaxObserved())
}
