// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"strings"

	"condamage/internal/damage"
)

// Report bundles the finalized tables with the run metadata. Rendering
// is a pure function of this struct; identical inputs render to
// byte-identical output.
type Report struct {
	Version string
	Args    []string
	Stats   *damage.Accumulator
	Lengths *damage.LengthHistogram
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) pf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Write renders the report. Table order is fixed: the four
// unconditional blocks, then for each window and condition the C2T and
// G2A conditional blocks, then the fragment length block if any
// fragment was observed.
func Write(w io.Writer, r Report) error {
	p := &printer{w: w}

	p.pf("# condamage %s\n", r.Version)
	p.pf("# command: condamage %s\n\n", strings.Join(r.Args, " "))

	a := r.Stats
	uncond := []struct {
		ctx, mm, end, base string
		rows               []damage.PositionCounts
		g                  bool
	}{
		{"C2T5", "C to T", "5", "C", a.Counts5, false},
		{"C2T3", "C to T", "3", "C", a.Counts3, false},
		{"G2A5", "G to A", "5", "G", a.Counts5, true},
		{"G2A3", "G to A", "3", "G", a.Counts3, true},
	}
	for _, b := range uncond {
		p.pf("#%s\ti\tmm\tn\n", b.ctx)
		p.pf("# %s  %s mismatches towards the %s' end\n", b.ctx, b.mm, b.end)
		p.pf("# i     distance from %s' end\n", b.end)
		p.pf("# mm    number of mismatches\n")
		p.pf("# n     matches+mismatches (ref has %s)\n\n", b.base)
		for i, c := range b.rows {
			if b.g {
				p.pf("%s\t%d\t%d\t%d\n", b.ctx, i+1, c.G2A, c.G)
			} else {
				p.pf("%s\t%d\t%d\t%d\n", b.ctx, i+1, c.C2T, c.C)
			}
		}
		p.pf("\n")
	}

	for win, rows := range [][]damage.PositionCounts{a.Counts5, a.Counts3} {
		end := "53"[win : win+1]
		for k := damage.Condition(0); k < damage.NumConditions; k++ {
			cond := k.String()

			p.pf("#C2T%s|%s\ti\tmm\tn\n", end, cond)
			p.pf("# C2T%s|%s  C to T mismatches towards the %s' end,\n", end, cond, end)
			p.pf("#            conditional on a %c to %c mismatch at the most %c' position\n", cond[1], cond[3], cond[0])
			for i := range rows {
				c := rows[i].Cond[k]
				p.pf("C2T%s|%s\t%d\t%d\t%d\n", end, cond, i+1, c.C2T, c.C)
			}
			p.pf("\n")

			p.pf("#G2A%s|%s\ti\tmm\tn\n", end, cond)
			p.pf("# G2A%s|%s  G to A mismatches towards the %s' end,\n", end, cond, end)
			p.pf("#            conditional on a %c to %c mismatch at the most %c' position\n", cond[1], cond[3], cond[0])
			for i := range rows {
				c := rows[i].Cond[k]
				p.pf("G2A%s|%s\t%d\t%d\t%d\n", end, cond, i+1, c.G2A, c.G)
			}
			p.pf("\n")
		}
	}

	if max := r.Lengths.MaxObserved(); max >= 0 {
		p.pf("#LEN\tl\tn\tn5C2T\tn3C2T\tn5G2A\tn3G2A\n")
		p.pf("# LEN     fragment length distribution\n")
		p.pf("# l       fragment length, including hard-clipped bases\n")
		p.pf("# n       number of fragments\n")
		p.pf("# n<cond> fragments with a <cond> terminal mismatch\n\n")
		for l := 0; l <= max; l++ {
			p.pf("LEN\t%d\t%d\t%d\t%d\t%d\t%d\n", l,
				r.Lengths.N[l],
				r.Lengths.Cond[damage.Cond5C2T][l],
				r.Lengths.Cond[damage.Cond3C2T][l],
				r.Lengths.Cond[damage.Cond5G2A][l],
				r.Lengths.Cond[damage.Cond3G2A][l])
		}
		p.pf("\n")
	}

	return p.err
}
