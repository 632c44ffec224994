// internal/damage/predicate.go
package damage

// Thresholds are the per-direction inclusion limits for the filtered
// output: a C→T or G→A mismatch strictly closer than the limit to the
// matching fragment end marks its record for emission. All-zero
// thresholds never match anything.
type Thresholds struct {
	C5, C3 int
	G5, G3 int
}

// Zero reports whether every threshold is zero, i.e. filtering is off.
func (t Thresholds) Zero() bool {
	return t.C5 == 0 && t.C3 == 0 && t.G5 == 0 && t.G3 == 0
}

// Evaluator tests walked bases against the thresholds. Evaluation is
// independent per base; a record is emitted when any of its bases
// matches.
type Evaluator struct {
	thr Thresholds
}

func NewEvaluator(t Thresholds) Evaluator { return Evaluator{thr: t} }

// Match reports whether b is a qualifying mismatch within threshold
// distance of either fragment end. The strand remap is the same as the
// accumulator's: a reverse-strand C→T observation is a G→A event on
// the original molecule and is tested against the G thresholds with
// the 5'/3' roles swapped.
func (e Evaluator) Match(b Base, reverse bool) bool {
	ev, ok := classifyBase(b.Ref, b.Read, reverse)
	if !ok || !ev.mismatch {
		return false
	}
	thr5, thr3 := e.thr.C5, e.thr.C3
	if ev.g {
		thr5, thr3 = e.thr.G5, e.thr.G3
	}
	d5, d3 := b.Z1, b.Z2
	if reverse {
		d5, d3 = d3, d5
	}
	return d5 < thr5 || d3 < thr3
}
