// internal/app/app.go
package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"condamage/internal/alignio"
	"condamage/internal/cli"
	"condamage/internal/refseq"
	"condamage/internal/report"
	"condamage/internal/scan"
	"condamage/internal/version"
)

// Run wires the collaborators together and executes one scan. Exit
// codes: 0 success, 2 configuration error, 1 any fatal run error.
func Run(argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("condamage")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cli.PrintUsage(stdout, fs)
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		cli.PrintUsage(stderr, fs)
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(stdout, "condamage version %s\n", version.Version)
		return 0
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	ref, err := refseq.Open(opts.RefFile)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer ref.Close()

	in, err := alignio.Open(opts.AlignFile)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer in.Close()

	var sink *alignio.Sink
	if opts.OutFile != "" {
		cl := "condamage " + strings.Join(argv, " ")
		sink, err = alignio.NewSink(opts.OutFile, in.Header(), version.Version, cl)
		if err != nil {
			log.Error(err)
			return 1
		}
	}

	sc := scan.New(scan.Config{
		Window:      opts.Window,
		MaxFragLen:  opts.MaxFragLen,
		ForwardOnly: opts.FwdOnly,
		ReverseOnly: opts.RevOnly,
		Thresholds:  opts.Thresholds,
	}, refseq.NewCache(ref), log)

	var dst scan.Sink
	if sink != nil {
		dst = sink
	}
	if err := sc.Run(in, dst); err != nil {
		log.Error(err)
		if sink != nil {
			_ = sink.Close()
		}
		return 1
	}
	if sink != nil {
		if err := sink.Close(); err != nil {
			log.Errorf("%s: %v", opts.OutFile, err)
			return 1
		}
	}

	outw := bufio.NewWriter(stdout)
	err = report.Write(outw, report.Report{
		Version: version.Version,
		Args:    argv,
		Stats:   sc.Stats(),
		Lengths: sc.Lengths(),
	})
	if err == nil {
		err = outw.Flush()
	}
	if report.IsBrokenPipe(err) {
		return 0
	}
	if err != nil {
		log.Error(err)
		return 1
	}
	return 0
}
