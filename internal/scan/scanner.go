// internal/scan/scanner.go
package scan

import (
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	"github.com/sirupsen/logrus"

	"condamage/internal/damage"
	"condamage/internal/refseq"
)

// Config controls one scan over an alignment stream.
type Config struct {
	Window      int
	MaxFragLen  int
	ForwardOnly bool
	ReverseOnly bool
	Thresholds  damage.Thresholds
}

// Source is a sequential stream of alignment records ending in io.EOF.
type Source interface {
	Read() (*sam.Record, error)
}

// Sink receives the records selected by the output predicate.
type Sink interface {
	Write(*sam.Record) error
}

// Scanner consumes an alignment stream one record at a time and owns
// all mutable scan state: the position tables, the length histogram
// and the reference cache slot. Nothing here is safe for concurrent
// use; the scan is strictly sequential.
type Scanner struct {
	cfg     Config
	refs    *refseq.Cache
	log     *logrus.Logger
	stats   *damage.Accumulator
	lengths *damage.LengthHistogram
	pred    damage.Evaluator

	skipped int // records dropped for mapping outside the reference
}

func New(cfg Config, refs *refseq.Cache, log *logrus.Logger) *Scanner {
	return &Scanner{
		cfg:     cfg,
		refs:    refs,
		log:     log,
		stats:   damage.NewAccumulator(cfg.Window),
		lengths: damage.NewLengthHistogram(cfg.MaxFragLen),
		pred:    damage.NewEvaluator(cfg.Thresholds),
	}
}

func (s *Scanner) Stats() *damage.Accumulator { return s.stats }

func (s *Scanner) Lengths() *damage.LengthHistogram { return s.lengths }

func (s *Scanner) Skipped() int { return s.skipped }

// Run processes records until src is exhausted. sink may be nil. A
// reference lookup failure or a sink write failure aborts the run;
// a record mapping past the end of its contig is warned and skipped.
func (s *Scanner) Run(src Source, sink Sink) error {
	for {
		rec, err := src.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading alignments: %w", err)
		}
		if !s.keep(rec) {
			continue
		}

		ref, err := s.refs.Fetch(rec.Ref.Name())
		if err != nil {
			return err
		}
		if rec.End() > len(ref) {
			s.log.Warnf("%s: read mapped outside the reference sequence: alignment/reference mismatch?", rec.Name)
			s.skipped++
			continue
		}

		rev := rec.Flags&sam.Reverse != 0
		seq := rec.Seq.Expand()
		cond := damage.Classify(rec, seq, ref)

		emit := false
		fragLen, err := damage.Walk(rec, seq, ref, s.cfg.Window, func(b damage.Base) {
			s.stats.Update(b, rev, cond)
			if !emit && s.pred.Match(b, rev) {
				emit = true
			}
		})
		if err != nil {
			s.log.Warnf("%s: %v", rec.Name, err)
			s.skipped++
			continue
		}
		s.lengths.Record(fragLen, cond)

		if emit && sink != nil {
			if err := sink.Write(rec); err != nil {
				return fmt.Errorf("writing filtered output: %w", err)
			}
		}
	}
}

// skipFlags drops everything the statistics are not defined over.
// Paired records are rejected outright: fragment semantics for pairs
// are out of scope.
const skipFlags = sam.Unmapped | sam.QCFail | sam.Duplicate |
	sam.Secondary | sam.Supplementary | sam.Paired

func (s *Scanner) keep(rec *sam.Record) bool {
	if rec.Flags&skipFlags != 0 {
		return false
	}
	if rec.Seq.Length == 0 {
		return false
	}
	rev := rec.Flags&sam.Reverse != 0
	if s.cfg.ForwardOnly && rev {
		return false
	}
	if s.cfg.ReverseOnly && !rev {
		return false
	}
	return true
}
