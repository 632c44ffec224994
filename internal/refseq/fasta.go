// internal/refseq/fasta.go
package refseq

import (
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/fai"
)

// File provides random access to the contigs of an indexed FASTA
// file. The sidecar <path>.fai index is used when present; otherwise
// the index is built by scanning the file once at open time.
type File struct {
	f   *os.File
	idx fai.Index
	fai *fai.File
}

// Open opens a FASTA reference. Compressed references are rejected:
// random access needs a plain file, same as samtools faidx.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	if n, _ := io.ReadFull(f, sig[:]); n == 2 && sig[0] == 0x1f && sig[1] == 0x8b {
		_ = f.Close()
		return nil, fmt.Errorf("%s: compressed reference not supported, decompress it first", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}

	idx, err := loadIndex(path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{f: f, idx: idx, fai: fai.NewFile(f, idx)}, nil
}

func loadIndex(path string) (fai.Index, error) {
	if fh, err := os.Open(path + ".fai"); err == nil {
		defer fh.Close()
		idx, err := fai.ReadFrom(fh)
		if err != nil {
			return nil, fmt.Errorf("%s.fai: %w", path, err)
		}
		return idx, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	idx, err := buildIndex(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

// Fetch reads the full sequence of the named contig.
func (f *File) Fetch(name string) ([]byte, error) {
	s, err := f.fai.Seq(name)
	if err != nil {
		return nil, err
	}
	seq, err := io.ReadAll(s)
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// Has reports whether the named contig is present in the index.
func (f *File) Has(name string) bool {
	_, ok := f.idx[name]
	return ok
}

func (f *File) Close() error { return f.f.Close() }
