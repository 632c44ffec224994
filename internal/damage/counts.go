// internal/damage/counts.go
package damage

// CondCounts is the counter block shared by the unconditional and
// conditional statistics of one position slot.
type CondCounts struct {
	C, C2T, G, G2A uint64
}

// PositionCounts holds the counters for one distance-from-end value:
// the unconditional block plus one conditional block per condition.
type PositionCounts struct {
	CondCounts
	Cond [NumConditions]CondCounts
}

// baseEvent is the strand-normalized classification of one aligned
// base: which counter class it belongs to and whether the observed
// query base is the deamination mismatch for that class. The reverse
// strand swaps the class (a reference C is sequenced as G on the
// complement) as well as the 5'/3' table roles; the table swap is
// applied by the accumulator.
type baseEvent struct {
	g        bool // counter class: false = ref C, true = ref G
	mismatch bool // query base is T (class C) or A (class G)
}

// classifyBase is the single lookup encoding the strand-dependent
// base remapping.
func classifyBase(refBase, readBase byte, reverse bool) (baseEvent, bool) {
	switch refBase {
	case 'C':
		return baseEvent{g: reverse, mismatch: readBase == 'T'}, true
	case 'G':
		return baseEvent{g: !reverse, mismatch: readBase == 'A'}, true
	}
	return baseEvent{}, false
}

// Accumulator owns the pair of position tables and is their sole
// mutator. Counts5 covers distances toward the genome-5' end of the
// fragment, Counts3 toward the genome-3' end.
type Accumulator struct {
	Window  int
	Counts5 []PositionCounts
	Counts3 []PositionCounts
}

func NewAccumulator(window int) *Accumulator {
	return &Accumulator{
		Window:  window,
		Counts5: make([]PositionCounts, window),
		Counts3: make([]PositionCounts, window),
	}
}

// Update attributes one walked base to a table slot. Z1 decides first:
// a base within window of the read's 5' end goes to slot Z1 of the
// table facing that end in genome orientation, otherwise a base within
// window of the 3' end goes to slot Z2 of the opposite table. Both can
// qualify only for reads shorter than twice the window; Z1 wins then.
// Every unconditional increment is mirrored into the conditional block
// of each condition set on the record.
func (a *Accumulator) Update(b Base, reverse bool, cond ConditionSet) {
	ev, ok := classifyBase(b.Ref, b.Read, reverse)
	if !ok {
		return
	}

	near, far := a.Counts5, a.Counts3
	if reverse {
		near, far = far, near
	}
	var slot *PositionCounts
	switch {
	case b.Z1 < a.Window:
		slot = &near[b.Z1]
	case b.Z2 < a.Window:
		slot = &far[b.Z2]
	default:
		return
	}

	if ev.g {
		slot.G++
		if ev.mismatch {
			slot.G2A++
		}
		for k := Condition(0); k < NumConditions; k++ {
			if cond.Has(k) {
				slot.Cond[k].G++
				if ev.mismatch {
					slot.Cond[k].G2A++
				}
			}
		}
	} else {
		slot.C++
		if ev.mismatch {
			slot.C2T++
		}
		for k := Condition(0); k < NumConditions; k++ {
			if cond.Has(k) {
				slot.Cond[k].C++
				if ev.mismatch {
					slot.Cond[k].C2T++
				}
			}
		}
	}
}
