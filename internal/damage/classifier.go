// internal/damage/classifier.go
package damage

import "github.com/biogo/hts/sam"

// alignedOp reports whether a CIGAR operation aligns query bases to
// reference bases (M, = or X).
func alignedOp(t sam.CigarOpType) bool {
	return t == sam.CigarMatch || t == sam.CigarEqual || t == sam.CigarMismatch
}

// terminalCondition maps an observed terminal mismatch to its condition.
// leftEnd selects the read's leftmost position (in read orientation);
// otherwise the rightmost. The mapping is strand-normalized: on the
// reverse strand the read's leftmost base sits at the fragment's 3' end
// and is sequenced from the complement strand, so an observed C→T there
// is really a G→A at the 3' terminus of the original molecule.
func terminalCondition(leftEnd bool, refBase, readBase byte, reverse bool) (Condition, bool) {
	switch {
	case refBase == 'C' && readBase == 'T':
		if leftEnd {
			if reverse {
				return Cond3G2A, true
			}
			return Cond5C2T, true
		}
		if reverse {
			return Cond5G2A, true
		}
		return Cond3C2T, true
	case refBase == 'G' && readBase == 'A':
		if leftEnd {
			if reverse {
				return Cond3C2T, true
			}
			return Cond5G2A, true
		}
		if reverse {
			return Cond5C2T, true
		}
		return Cond3G2A, true
	}
	return 0, false
}

// Classify inspects the two terminal aligned bases of rec and returns
// the condition set observed there. seq must be the expanded query
// bases, ref the full sequence of the record's contig. A terminal
// CIGAR operation that is not M/=/X skips that side's test entirely;
// the classifier does not walk inward to find the nearest aligned
// base.
func Classify(rec *sam.Record, seq, ref []byte) ConditionSet {
	var set ConditionSet
	if len(rec.Cigar) == 0 || len(seq) == 0 {
		return set
	}
	rev := rec.Flags&sam.Reverse != 0

	if alignedOp(rec.Cigar[0].Type()) {
		if c, ok := terminalCondition(true, ref[rec.Pos], seq[0], rev); ok {
			set.Add(c)
		}
	}
	if alignedOp(rec.Cigar[len(rec.Cigar)-1].Type()) {
		if c, ok := terminalCondition(false, ref[rec.End()-1], seq[len(seq)-1], rev); ok {
			set.Add(c)
		}
	}
	return set
}
