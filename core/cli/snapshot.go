package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/surfacediff/drivers/snapshotfile"
)

// SnapshotOptions holds the parsed flags for "snapshot".
type SnapshotOptions struct {
	Source string
	Repo   string
	Output string
	Format string
}

// SnapshotRunFunc is the function signature for the snapshot command handler.
type SnapshotRunFunc func(ctx context.Context, globals GlobalOptions, opts SnapshotOptions) error

// NewSnapshotCmd creates the "snapshot" subcommand.
func NewSnapshotCmd(globals *GlobalOptions, runFunc SnapshotRunFunc) *cobra.Command {
	var opts SnapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the API surface of a source to a snapshot file",
		Long: "Load an API surface and serialize it, so it can be compared later or by\n" +
			"another machine without access to the original source.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateSnapshotFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), *globals, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "Surface source to snapshot (required)")
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository whose go.mod pins versions of bare module paths")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Snapshot file to write, or - for stdout (required)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "json, yaml or msgpack (default from the output extension)")

	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("output")

	return cmd
}

func validateSnapshotFlags(opts SnapshotOptions) error {
	if opts.Source == "" {
		return fmt.Errorf("--source is required")
	}
	if opts.Output == "" {
		return fmt.Errorf("--output is required")
	}
	if opts.Format != "" {
		if _, err := snapshotfile.ParseFormat(opts.Format); err != nil {
			return err
		}
	} else if opts.Output == "-" {
		return fmt.Errorf("--format is required when writing to stdout")
	} else if _, ok := snapshotfile.FormatForPath(opts.Output); !ok {
		return fmt.Errorf("cannot infer format from %s; pass --format", opts.Output)
	}
	if opts.Repo != "" {
		if err := checkDir(opts.Repo); err != nil {
			return err
		}
	}
	return nil
}
