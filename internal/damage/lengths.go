// internal/damage/lengths.go
package damage

// LengthHistogram accumulates the fragment length distribution,
// unconditionally and per terminal damage condition. Lengths at or
// beyond the configured maximum are dropped silently; the record still
// contributes to the position tables.
type LengthHistogram struct {
	N    []uint64
	Cond [NumConditions][]uint64
}

func NewLengthHistogram(max int) *LengthHistogram {
	h := &LengthHistogram{N: make([]uint64, max)}
	for k := range h.Cond {
		h.Cond[k] = make([]uint64, max)
	}
	return h
}

// Record counts one fragment of the given length.
func (h *LengthHistogram) Record(length int, cond ConditionSet) {
	if length < 0 || length >= len(h.N) {
		return
	}
	h.N[length]++
	for k := Condition(0); k < NumConditions; k++ {
		if cond.Has(k) {
			h.Cond[k][length]++
		}
	}
}

// MaxObserved returns the largest length with a nonzero unconditional
// count, or -1 when the histogram is empty.
func (h *LengthHistogram) MaxObserved() int {
	for l := len(h.N) - 1; l >= 0; l-- {
		if h.N[l] > 0 {
			return l
		}
	}
	return -1
}
