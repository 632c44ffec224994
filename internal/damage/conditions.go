// internal/damage/conditions.go
package damage

import "math/bits"

// Condition identifies one terminal damage signature: a C→T or G→A
// mismatch at the most 5' or most 3' position of a fragment.
type Condition uint8

const (
	Cond5C2T Condition = iota
	Cond3C2T
	Cond5G2A
	Cond3G2A
	NumConditions
)

var condLabels = [NumConditions]string{"5C2T", "3C2T", "5G2A", "3G2A"}

func (c Condition) String() string {
	if c >= NumConditions {
		return "?"
	}
	return condLabels[c]
}

// ConditionSet is the per-record bit set over the four conditions.
// A record may carry zero to four conditions; they are not mutually
// exclusive.
type ConditionSet uint8

func (s *ConditionSet) Add(c Condition) { *s |= 1 << c }

func (s ConditionSet) Has(c Condition) bool { return s&(1<<c) != 0 }

// Count reports how many conditions are set.
func (s ConditionSet) Count() int { return bits.OnesCount8(uint8(s)) }
