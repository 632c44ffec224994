// internal/refseq/index.go
package refseq

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/biogo/hts/fai"
)

// buildIndex scans a FASTA stream and produces a faidx-equivalent
// index. Sequence lines of a record must share one length except for
// the last; ragged records cannot be randomly accessed and are an
// error, matching samtools faidx.
func buildIndex(r io.Reader) (fai.Index, error) {
	idx := fai.Index{}
	br := bufio.NewReader(r)

	var (
		cur    *fai.Record
		short  bool // a non-full sequence line was seen for cur
		offset int64
	)
	flush := func() {
		if cur != nil {
			idx[cur.Name] = *cur
			cur = nil
		}
	}

	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			raw := len(line)
			data := bytes.TrimRight(line, "\r\n")

			switch {
			case len(data) > 0 && data[0] == '>':
				flush()
				name := string(bytes.Fields(data[1:])[0])
				if _, dup := idx[name]; dup {
					return nil, fmt.Errorf("duplicate sequence name %q", name)
				}
				cur = &fai.Record{Name: name, Start: offset + int64(raw)}
				short = false
			case cur == nil:
				if len(data) > 0 {
					return nil, fmt.Errorf("sequence data before first header")
				}
			case len(data) == 0:
				// A blank line ends the indexable part of the record;
				// further sequence lines would be unreachable by seek.
				short = true
			default:
				if short {
					return nil, fmt.Errorf("sequence %q has non-uniform line lengths", cur.Name)
				}
				if cur.BasesPerLine == 0 {
					cur.BasesPerLine = len(data)
					cur.BytesPerLine = raw
				}
				if len(data) > cur.BasesPerLine {
					return nil, fmt.Errorf("sequence %q has non-uniform line lengths", cur.Name)
				}
				if len(data) < cur.BasesPerLine {
					short = true
				}
				cur.Length += len(data)
			}
			offset += int64(raw)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	flush()
	if len(idx) == 0 {
		return nil, fmt.Errorf("no sequences found")
	}
	return idx, nil
}
