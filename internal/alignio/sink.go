// internal/alignio/sink.go
package alignio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Sink writes the filtered subset of alignments in input order. The
// output header is the input header with one @PG line appended
// recording the tool version and invocation. BAM is written when the
// path ends in .bam, SAM text otherwise.
type Sink struct {
	f   *os.File
	buf *bufio.Writer
	bw  *bam.Writer
	sw  *sam.Writer
}

// NewSink creates the filtered-output file.
func NewSink(path string, hdr *sam.Header, toolVersion, commandLine string) (*Sink, error) {
	h := hdr.Clone()
	prog := sam.NewProgram("condamage", "condamage", commandLine, "", toolVersion)
	if err := h.AddProgram(prog); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := &Sink{f: f}
	if strings.HasSuffix(path, ".bam") {
		bw, err := bam.NewWriter(f, h, 1)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.bw = bw
		return s, nil
	}
	s.buf = bufio.NewWriter(f)
	sw, err := sam.NewWriter(s.buf, h, sam.FlagDecimal)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.sw = sw
	return s, nil
}

// Write emits one selected record.
func (s *Sink) Write(rec *sam.Record) error {
	if s.bw != nil {
		return s.bw.Write(rec)
	}
	return s.sw.Write(rec)
}

// Close flushes and closes the output. A write error here is as fatal
// as one during the scan: records must not be dropped silently.
func (s *Sink) Close() error {
	var err error
	if s.bw != nil {
		err = s.bw.Close()
	}
	if s.buf != nil {
		if ferr := s.buf.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if cerr := s.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
