package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/emenda-labs/surfacediff/core/cli"
	"github.com/emenda-labs/surfacediff/core/config"
	"github.com/emenda-labs/surfacediff/core/driver"
	"github.com/emenda-labs/surfacediff/core/report"
	"github.com/emenda-labs/surfacediff/core/surface"
	golangdriver "github.com/emenda-labs/surfacediff/drivers/golang"
	"github.com/emenda-labs/surfacediff/drivers/snapshotfile"
	"github.com/emenda-labs/surfacediff/pkg/logger"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var globals cli.GlobalOptions
	root := cli.NewRootCmd(version, &globals)
	root.AddCommand(
		cli.NewCompareCmd(&globals, runCompare),
		cli.NewSnapshotCmd(&globals, runSnapshot),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads the config file and builds the process logger from it.
func setup(globals cli.GlobalOptions) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(globals.ConfigPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	if globals.Verbose {
		level = slog.LevelDebug
	}
	return cfg, logger.New(os.Stderr, level), nil
}

// loaders returns the surface loaders in resolution order: snapshot files
// are recognised by extension before anything is treated as Go source.
func loaders(log *slog.Logger, repo string) []driver.SurfaceLoader {
	return []driver.SurfaceLoader{
		snapshotfile.Loader{},
		golangdriver.NewDriver(golangdriver.WithLogger(log), golangdriver.WithRepo(repo)),
	}
}

func runCompare(ctx context.Context, globals cli.GlobalOptions, opts cli.CompareOptions) error {
	cfg, log, err := setup(globals)
	if err != nil {
		return err
	}
	opts.ApplyConfig(cfg)

	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	ls := loaders(log, opts.Repo)
	var ref, cand *surface.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("loading surface", "side", opts.ReferenceLabel, "source", opts.Reference)
		snap, err := driver.Load(gctx, opts.Reference, ls...)
		if err != nil {
			return fmt.Errorf("loading %s surface: %w", opts.ReferenceLabel, err)
		}
		ref = snap
		return nil
	})
	g.Go(func() error {
		log.Info("loading surface", "side", opts.CandidateLabel, "source", opts.Candidate)
		snap, err := driver.Load(gctx, opts.Candidate, ls...)
		if err != nil {
			return fmt.Errorf("loading %s surface: %w", opts.CandidateLabel, err)
		}
		cand = snap
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	diffOpts := []surface.Option{
		surface.WithMarkers(opts.Markers...),
		surface.WithJobs(opts.Jobs),
		surface.WithRenameHints(opts.RenameHints),
	}
	if opts.IndexerName != "" {
		diffOpts = append(diffOpts, surface.WithIndexerName(opts.IndexerName))
	}
	rep := surface.NewDiffer(diffOpts...).Diff(ref, cand)

	renderOpts := report.Options{Format: format, CandidateLabel: opts.CandidateLabel}
	if err := writeOutput(opts.Output, func(w io.Writer, tty bool) error {
		renderOpts.Color = tty && !color.NoColor
		return report.Render(w, rep, renderOpts)
	}); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.Info("comparison complete",
		"types_not_in_candidate", len(rep.TypesNotInCandidate),
		"types_extra_in_candidate", len(rep.TypesExtraInCandidate),
		"types_with_member_differences", len(rep.TypeComparisons),
		"output", opts.Output)

	if opts.FailOnDiff && !rep.IsEmpty() {
		return fmt.Errorf("%w: %d discrepancies", cli.ErrDiscrepancies, rep.Count())
	}
	return nil
}

func runSnapshot(ctx context.Context, globals cli.GlobalOptions, opts cli.SnapshotOptions) error {
	_, log, err := setup(globals)
	if err != nil {
		return err
	}

	format := snapshotfile.Format(opts.Format)
	if format == "" {
		format, _ = snapshotfile.FormatForPath(opts.Output)
	} else if format, err = snapshotfile.ParseFormat(opts.Format); err != nil {
		return err
	}

	snap, err := driver.Load(ctx, opts.Source, loaders(log, opts.Repo)...)
	if err != nil {
		return fmt.Errorf("loading surface: %w", err)
	}

	if err := writeOutput(opts.Output, func(w io.Writer, _ bool) error {
		return snapshotfile.Write(w, snap, format)
	}); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	log.Info("snapshot written", "source", opts.Source, "types", len(snap.Types), "output", opts.Output)
	return nil
}

// writeOutput runs write against stdout for "-" or against a newly created
// file. tty reports whether the destination is an interactive terminal.
func writeOutput(path string, write func(w io.Writer, tty bool) error) (err error) {
	if path == "-" {
		bw := bufio.NewWriter(os.Stdout)
		if err := write(bw, term.IsTerminal(int(os.Stdout.Fd()))); err != nil {
			return err
		}
		return bw.Flush()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f, false)
}
