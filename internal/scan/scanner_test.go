// internal/scan/scanner_test.go
package scan

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"condamage/internal/damage"
	"condamage/internal/refseq"
)

type sliceSource struct {
	recs []*sam.Record
	i    int
}

func (s *sliceSource) Read() (*sam.Record, error) {
	if s.i >= len(s.recs) {
		return nil, io.EOF
	}
	r := s.recs[s.i]
	s.i++
	return r, nil
}

type mapProvider map[string][]byte

func (p mapProvider) Fetch(name string) ([]byte, error) {
	seq, ok := p[name]
	if !ok {
		return nil, errors.New("sequence not found")
	}
	return seq, nil
}

type memSink struct {
	recs []*sam.Record
}

func (s *memSink) Write(r *sam.Record) error {
	s.recs = append(s.recs, r)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func record(t *testing.T, ref *sam.Reference, pos int, cigar []sam.CigarOp, seq string, flags sam.Flags) *sam.Record {
	t.Helper()
	qual := bytes.Repeat([]byte{40}, len(seq))
	rec, err := sam.NewRecord("read", ref, nil, pos, -1, 0, 50, cigar, []byte(seq), qual, nil)
	require.NoError(t, err)
	rec.Flags |= flags
	return rec
}

func cigarM(n int) []sam.CigarOp {
	return []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, n)}
}

func testRef(t *testing.T, name string, length int) *sam.Reference {
	t.Helper()
	ref, err := sam.NewReference(name, "", "", length, nil, nil)
	require.NoError(t, err)
	// registering the reference in a header assigns its id; records
	// cannot link to an unregistered reference
	_, err = sam.NewHeader(nil, []*sam.Reference{ref})
	require.NoError(t, err)
	return ref
}

func newScanner(cfg Config, p refseq.Provider) *Scanner {
	return New(cfg, refseq.NewCache(p), quietLogger())
}

func TestScanCountsAndLengths(t *testing.T) {
	refSeq := []byte("CCCCCCCCCC")
	ref := testRef(t, "chr1", len(refSeq))

	src := &sliceSource{recs: []*sam.Record{
		record(t, ref, 0, cigarM(10), "TCCCCCCCCC", 0),
	}}
	s := newScanner(Config{Window: 30, MaxFragLen: 1024}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(src, nil))

	require.Equal(t, uint64(1), s.Stats().Counts5[0].C)
	require.Equal(t, uint64(1), s.Stats().Counts5[0].C2T)
	require.Equal(t, uint64(1), s.Stats().Counts5[1].C)
	require.Zero(t, s.Stats().Counts5[1].C2T)
	// the terminal C→T conditions every position of this record
	require.Equal(t, uint64(1), s.Stats().Counts5[1].Cond[damage.Cond5C2T].C)

	require.Equal(t, uint64(1), s.Lengths().N[10])
	require.Equal(t, uint64(1), s.Lengths().Cond[damage.Cond5C2T][10])
}

func TestScanSkipsFlaggedRecords(t *testing.T) {
	refSeq := []byte("CCCCCCCCCC")
	ref := testRef(t, "chr1", len(refSeq))

	for _, f := range []sam.Flags{
		sam.Unmapped, sam.QCFail, sam.Duplicate,
		sam.Secondary, sam.Supplementary, sam.Paired,
	} {
		src := &sliceSource{recs: []*sam.Record{
			record(t, ref, 0, cigarM(10), "CCCCCCCCCC", f),
		}}
		s := newScanner(Config{Window: 30, MaxFragLen: 1024}, mapProvider{"chr1": refSeq})
		require.NoError(t, s.Run(src, nil))
		require.Zero(t, s.Stats().Counts5[0].C, "flag %v must be skipped", f)
	}
}

func TestScanStrandFilters(t *testing.T) {
	refSeq := []byte("CCCCCCCCCC")
	ref := testRef(t, "chr1", len(refSeq))

	recs := func() []*sam.Record {
		return []*sam.Record{
			record(t, ref, 0, cigarM(10), "CCCCCCCCCC", 0),
			record(t, ref, 0, cigarM(10), "CCCCCCCCCC", sam.Reverse),
		}
	}

	s := newScanner(Config{Window: 30, MaxFragLen: 1024, ForwardOnly: true}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(&sliceSource{recs: recs()}, nil))
	require.Equal(t, uint64(1), s.Stats().Counts5[0].C)

	s = newScanner(Config{Window: 30, MaxFragLen: 1024, ReverseOnly: true}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(&sliceSource{recs: recs()}, nil))
	// reverse reads over reference C count into the G class
	require.Equal(t, uint64(1), s.Stats().Counts3[0].G)
	require.Zero(t, s.Stats().Counts5[0].C)
}

func TestScanMissingContigIsFatal(t *testing.T) {
	ref := testRef(t, "chrM", 10)
	src := &sliceSource{recs: []*sam.Record{
		record(t, ref, 0, cigarM(10), "CCCCCCCCCC", 0),
	}}
	s := newScanner(Config{Window: 30, MaxFragLen: 1024}, mapProvider{})
	require.Error(t, s.Run(src, nil))
}

func TestScanOutOfBoundsWarnedAndSkipped(t *testing.T) {
	refSeq := []byte("CCCC") // shorter than the header claims
	ref := testRef(t, "chr1", 50)

	src := &sliceSource{recs: []*sam.Record{
		record(t, ref, 40, cigarM(10), "CCCCCCCCCC", 0),
		record(t, ref, 0, cigarM(4), "CCCC", 0),
	}}
	s := newScanner(Config{Window: 30, MaxFragLen: 1024}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(src, nil))
	require.Equal(t, 1, s.Skipped())
	require.Equal(t, uint64(1), s.Stats().Counts5[0].C, "the scan continues after a skipped record")
}

func TestScanEmitsMatchingRecords(t *testing.T) {
	refSeq := []byte("CCCCCCCCCC")
	ref := testRef(t, "chr1", len(refSeq))

	damaged := record(t, ref, 0, cigarM(10), "TCCCCCCCCC", 0)
	clean := record(t, ref, 0, cigarM(10), "CCCCCCCCCC", 0)
	src := &sliceSource{recs: []*sam.Record{damaged, clean}}

	sink := &memSink{}
	s := newScanner(Config{
		Window:     30,
		MaxFragLen: 1024,
		Thresholds: damage.Thresholds{C5: 2},
	}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(src, sink))

	require.Len(t, sink.recs, 1)
	require.Same(t, damaged, sink.recs[0])
}

func TestScanHardClipInLengths(t *testing.T) {
	refSeq := []byte("CCCCCCCCCC")
	ref := testRef(t, "chr1", len(refSeq))

	cig := []sam.CigarOp{
		sam.NewCigarOp(sam.CigarHardClipped, 5),
		sam.NewCigarOp(sam.CigarMatch, 10),
	}
	src := &sliceSource{recs: []*sam.Record{
		record(t, ref, 0, cig, "CCCCCCCCCC", 0),
	}}
	s := newScanner(Config{Window: 30, MaxFragLen: 1024}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(src, nil))
	require.Equal(t, uint64(1), s.Lengths().N[15])
}

func TestScanLongFragmentDropped(t *testing.T) {
	refSeq := bytes.Repeat([]byte{'A'}, 300)
	ref := testRef(t, "chr1", len(refSeq))

	seq := bytes.Repeat([]byte{'A'}, 150)
	src := &sliceSource{recs: []*sam.Record{
		record(t, ref, 0, cigarM(150), string(seq), 0),
	}}
	s := newScanner(Config{Window: 10, MaxFragLen: 100}, mapProvider{"chr1": refSeq})
	require.NoError(t, s.Run(src, nil))
	require.Equal(t, -1, s.Lengths().MaxObserved())
}
