// Command verifier classifies the addresses in a text or CSV file.
//
//	verifier [flags] <file|->
//
// A .csv file is read by header; the addresses come from the -column column.
// Any other file is read as one address per line. Results are written as
// JSON, or as CSV with -format csv, optionally keeping only the statuses
// listed in -only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	emailverifier "github.com/sanketagarwal/email-verifier"
	"github.com/sanketagarwal/email-verifier/internal/app"
	"github.com/sanketagarwal/email-verifier/internal/config"
	"github.com/sanketagarwal/email-verifier/internal/logging"
)

type options struct {
	configPath string
	column     string
	format     string
	only       string
	output     string
	quiet      bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to a YAML config file")
	flag.StringVar(&o.column, "column", "email", "CSV column holding the addresses")
	flag.StringVar(&o.format, "format", "json", "output format: json or csv")
	flag.StringVar(&o.only, "only", "", "comma-separated statuses to keep, e.g. valid,risky")
	flag.StringVar(&o.output, "o", "", "output file (default stdout)")
	flag.BoolVar(&o.quiet, "q", false, "do not print progress")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file|->\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(o, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "verifier:", err)
		os.Exit(1)
	}
}

func run(o options, input string) error {
	statuses, err := parseStatuses(o.only)
	if err != nil {
		return err
	}
	if o.format != "json" && o.format != "csv" {
		return fmt.Errorf("unknown format %q", o.format)
	}

	cfg, err := config.LoadFromEnv(o.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, "stderr")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	emails, err := readInput(input, o.column)
	if err != nil {
		return err
	}
	if err := emailverifier.CheckBatchSize(len(emails), 0); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, err := app.NewResolver(cfg.Resolver, log)
	if err != nil {
		return err
	}
	shared, err := app.NewSharedCache(ctx, cfg.Cache, 0, log)
	if err != nil {
		return fmt.Errorf("shared cache: %w", err)
	}
	if shared != nil {
		defer shared.Close()
	}

	batch := app.BatchOptions(cfg)
	if !o.quiet {
		batch.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rverified %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	report, verr := app.NewVerifier(cfg, resolver, shared, log).VerifyBatch(ctx, emails, batch)
	if verr != nil && !errors.Is(verr, context.Canceled) {
		return verr
	}
	if len(statuses) > 0 {
		report.Results = report.Filter(statuses...)
	}

	var out io.Writer = os.Stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if o.format == "csv" {
		err = writeCSV(out, report.Results)
	} else {
		err = writeJSON(out, report)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "total=%d valid=%d invalid=%d risky=%d domains=%d lookups=%d assumed=%d\n",
		report.Summary.Total, report.Summary.Valid, report.Summary.Invalid, report.Summary.Risky,
		report.Domains, report.Lookups, report.Assumed)
	if verr != nil {
		return fmt.Errorf("interrupted, partial results written: %w", verr)
	}
	return nil
}

func parseStatuses(s string) ([]emailverifier.Status, error) {
	if s == "" {
		return nil, nil
	}
	var out []emailverifier.Status
	for _, p := range strings.Split(s, ",") {
		switch st := emailverifier.Status(strings.TrimSpace(strings.ToLower(p))); st {
		case emailverifier.StatusValid, emailverifier.StatusInvalid, emailverifier.StatusRisky:
			out = append(out, st)
		default:
			return nil, fmt.Errorf("unknown status %q in -only", p)
		}
	}
	return out, nil
}
