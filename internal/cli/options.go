// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"condamage/internal/damage"
	"condamage/internal/version"
)

const (
	MinWindow  = 1
	MaxWindow  = 100
	MinFragLen = 100
	MaxFragLen = 1 << 20
)

// Options holds all CLI flags and arguments.
type Options struct {
	Window     int
	OutFile    string
	Thresholds damage.Thresholds
	MaxFragLen int
	FwdOnly    bool
	RevOnly    bool
	Version    bool

	AlignFile string
	RefFile   string
}

// NewFlagSet returns a clean FlagSet with ContinueOnError. All output
// goes through PrintUsage; pflag's own printing is silenced.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	return fs
}

// PrintUsage writes the usage text to w.
func PrintUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w,
		`condamage - post-mortem DNA damage statistics, conditional on terminal deamination

Version: %s

usage: condamage [options] in.bam ref.fasta

`, version.Version)
	fmt.Fprint(w, fs.FlagUsages())
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *pflag.FlagSet, argv []string) (Options, error) {
	opt := Options{}
	var ct, ga string

	fs.IntVarP(&opt.Window, "window", "w", 30, "size of the region for which (mis)matches are recorded [30]")
	fs.StringVarP(&opt.OutFile, "output", "o", "", "write reads matching the -C/-G thresholds to this SAM/BAM file")
	fs.StringVarP(&ct, "ct-limit", "C", "0,0", "emit reads with a C to T within A,B bases of the 5',3' end [0,0]")
	fs.StringVarP(&ga, "ga-limit", "G", "0,0", "emit reads with a G to A within A,B bases of the 5',3' end [0,0]")
	fs.IntVarP(&opt.MaxFragLen, "max-length", "l", 1024, "max fragment length tracked by the histogram [1024]")
	fs.BoolVarP(&opt.FwdOnly, "forward-only", "f", false, "only consider reads aligned to the forward (ref) strand")
	fs.BoolVarP(&opt.RevOnly, "reverse-only", "r", false, "only consider reads aligned to the reverse (non ref) strand")
	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if opt.Version {
		return opt, nil
	}

	var err error
	if opt.Thresholds.C5, opt.Thresholds.C3, err = parsePair(ct); err != nil {
		return opt, fmt.Errorf("-C %q is invalid: %v", ct, err)
	}
	if opt.Thresholds.G5, opt.Thresholds.G3, err = parsePair(ga); err != nil {
		return opt, fmt.Errorf("-G %q is invalid: %v", ga, err)
	}

	pos := fs.Args()
	if len(pos) != 2 {
		return opt, errors.New("expected exactly two arguments: in.bam ref.fasta")
	}
	opt.AlignFile, opt.RefFile = pos[0], pos[1]

	return opt, validate(&opt)
}

// parsePair parses "A,B" inclusion thresholds, each 0–100.
func parsePair(s string) (a, b int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("want two comma-separated values")
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, fmt.Errorf("bad value %q", p)
		}
		if v < 0 || v > 100 {
			return 0, 0, fmt.Errorf("value %d out of range 0-100", v)
		}
		if i == 0 {
			a = v
		} else {
			b = v
		}
	}
	return a, b, nil
}

func validate(opt *Options) error {
	if opt.Window < MinWindow || opt.Window > MaxWindow {
		return fmt.Errorf("-w must be between %d and %d", MinWindow, MaxWindow)
	}
	if opt.MaxFragLen < MinFragLen || opt.MaxFragLen > MaxFragLen {
		return fmt.Errorf("-l must be between %d and %d", MinFragLen, MaxFragLen)
	}
	if opt.FwdOnly && opt.RevOnly {
		return errors.New("-f and -r flags are mutually incompatible")
	}
	if opt.OutFile != "" && opt.Thresholds.Zero() {
		return errors.New("-o requires at least one nonzero -C/-G threshold")
	}
	if opt.OutFile == "" && !opt.Thresholds.Zero() {
		return errors.New("-C/-G thresholds require -o")
	}
	return nil
}
