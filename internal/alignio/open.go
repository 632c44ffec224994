// internal/alignio/open.go
package alignio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Reader is the subset of the SAM and BAM readers the scanner needs:
// a sequential, ordered stream of alignment records.
type Reader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

// Input wraps an open alignment stream together with its closer.
type Input struct {
	Reader
	f *os.File    // nil when reading stdin
	b *bam.Reader // nil for SAM text input
}

// Open opens a SAM or BAM alignment file, detecting the format from
// the BGZF magic bytes (1F 8B). "-" reads from stdin.
func Open(path string) (*Input, error) {
	var (
		f   *os.File
		src io.Reader
	)
	if path == "-" {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f = fh
		src = fh
	}

	br := bufio.NewReader(src)
	sig, err := br.Peek(2)
	if err != nil {
		closeQuiet(f)
		return nil, fmt.Errorf("%s: %w", name(path), err)
	}

	if sig[0] == 0x1f && sig[1] == 0x8b {
		b, err := bam.NewReader(br, 1)
		if err != nil {
			closeQuiet(f)
			return nil, fmt.Errorf("%s: %w", name(path), err)
		}
		return &Input{Reader: b, f: f, b: b}, nil
	}

	s, err := sam.NewReader(br)
	if err != nil {
		closeQuiet(f)
		return nil, fmt.Errorf("%s: %w", name(path), err)
	}
	return &Input{Reader: s, f: f}, nil
}

func (in *Input) Close() error {
	var err error
	if in.b != nil {
		err = in.b.Close()
	}
	if in.f != nil {
		if cerr := in.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func name(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func closeQuiet(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
