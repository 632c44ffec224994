// internal/damage/walker_test.go
package damage

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/require"
)

func TestWalkOffsets(t *testing.T) {
	// 2S 3M 1I 2M 2D 2M: query length 10, reference span 3+2+2+2 = 9
	ref := []byte("AACGTACGTACGTACG")
	sref := testRef(t, "c", len(ref))
	cig := []sam.CigarOp{
		sam.NewCigarOp(sam.CigarSoftClipped, 2),
		sam.NewCigarOp(sam.CigarMatch, 3),
		sam.NewCigarOp(sam.CigarInsertion, 1),
		sam.NewCigarOp(sam.CigarMatch, 2),
		sam.NewCigarOp(sam.CigarDeletion, 2),
		sam.NewCigarOp(sam.CigarMatch, 2),
	}
	rec := testRecord(t, sref, 2, cig, "TTCGTACGTA", false)

	var got []Base
	fragLen, err := Walk(rec, rec.Seq.Expand(), ref, 100, func(b Base) {
		got = append(got, b)
	})
	require.NoError(t, err)
	require.Equal(t, 10, fragLen)

	wantRef := []int{2, 3, 4, 5, 6, 9, 10}
	wantZ1 := []int{2, 3, 4, 6, 7, 8, 9}
	require.Len(t, got, len(wantRef))
	for i, b := range got {
		require.Equal(t, wantRef[i], b.RefPos, "base %d", i)
		require.Equal(t, wantZ1[i], b.Z1, "base %d", i)
		require.Equal(t, 10-b.Z1-1, b.Z2, "z1+z2 must equal qlen-1 (base %d)", i)
		require.Equal(t, ref[b.RefPos], b.Ref)
	}
}

func TestWalkWindowShortCircuit(t *testing.T) {
	ref := []byte("ACGTACGTACGTACGTACGT")
	sref := testRef(t, "c", len(ref))
	rec := testRecord(t, sref, 0, cigarM(20), "ACGTACGTACGTACGTACGT", false)

	var visited []int
	_, err := Walk(rec, rec.Seq.Expand(), ref, 3, func(b Base) {
		visited = append(visited, b.Z1)
	})
	require.NoError(t, err)
	// only the three leading and three trailing positions qualify
	require.Equal(t, []int{0, 1, 2, 17, 18, 19}, visited)
}

func TestWalkHardClipLength(t *testing.T) {
	ref := []byte("ACGTACGTAC")
	sref := testRef(t, "c", len(ref))
	cig := []sam.CigarOp{
		sam.NewCigarOp(sam.CigarHardClipped, 4),
		sam.NewCigarOp(sam.CigarMatch, 6),
		sam.NewCigarOp(sam.CigarHardClipped, 2),
	}
	rec := testRecord(t, sref, 0, cig, "ACGTAC", false)

	fragLen, err := Walk(rec, rec.Seq.Expand(), ref, 100, func(Base) {})
	require.NoError(t, err)
	require.Equal(t, 12, fragLen, "hard-clipped bases count toward fragment length")
}

func TestWalkReferenceBounds(t *testing.T) {
	ref := []byte("ACGT")
	sref := testRef(t, "c", 10) // header claims 10, the sequence has 4
	rec := testRecord(t, sref, 2, cigarM(5), "ACGTA", false)

	_, err := Walk(rec, rec.Seq.Expand(), ref, 100, func(Base) {
		t.Fatal("no base must be visited")
	})
	require.ErrorIs(t, err, ErrReferenceBounds)
}
