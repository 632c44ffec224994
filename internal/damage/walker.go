// internal/damage/walker.go
package damage

import (
	"errors"

	"github.com/biogo/hts/sam"
)

// ErrReferenceBounds is returned by Walk when an alignment extends past
// the end of its reference contig, which usually means the alignment
// file and the reference FASTA do not belong together.
var ErrReferenceBounds = errors.New("read mapped outside the reference sequence")

// Base is one aligned (query, reference) base pair reported by Walk.
// Z1 is the distance from the read's 5' end in read orientation, Z2 the
// distance from its 3' end; Z1+Z2 = query length - 1 always holds.
type Base struct {
	RefPos int
	Z1, Z2 int
	Ref    byte
	Read   byte
}

// Walk decodes the record's CIGAR left to right and reports every
// aligned base within window of either read end to visit. Insertions
// and soft clips consume query only, deletions and skips consume
// reference only, and hard clips consume neither but contribute to the
// returned fragment length (hard-clipped bases were part of the
// sequenced molecule even though they are absent from the record).
//
// Bases with Z1 >= window and Z2 >= window are skipped before the
// visit call; this is purely a short-circuit, no statistic is defined
// outside the two windows.
func Walk(rec *sam.Record, seq, ref []byte, window int, visit func(Base)) (fragLen int, err error) {
	if rec.End() > len(ref) {
		return 0, ErrReferenceBounds
	}

	qlen := rec.Seq.Length
	x := rec.Pos // reference offset
	y := 0       // query offset
	hardClip := 0

	for _, co := range rec.Cigar {
		n := co.Len()
		switch t := co.Type(); {
		case alignedOp(t):
			for j := 0; j < n; j++ {
				z1 := y + j
				z2 := qlen - z1 - 1
				if z1 >= window && z2 >= window {
					continue
				}
				visit(Base{
					RefPos: x + j,
					Z1:     z1,
					Z2:     z2,
					Ref:    ref[x+j],
					Read:   seq[z1],
				})
			}
			x += n
			y += n
		case t == sam.CigarInsertion || t == sam.CigarSoftClipped:
			y += n
		case t == sam.CigarDeletion || t == sam.CigarSkipped:
			x += n
		case t == sam.CigarHardClipped:
			hardClip += n
		}
	}
	return y + hardClip, nil
}
