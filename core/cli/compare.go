package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/emenda-labs/surfacediff/core/config"
	"github.com/emenda-labs/surfacediff/core/report"
)

// ErrDiscrepancies is returned by compare when --fail-on-diff is set and the
// surfaces differ.
var ErrDiscrepancies = errors.New("surfaces differ")

// CompareOptions holds the parsed flags for "compare".
type CompareOptions struct {
	Reference      string
	Candidate      string
	Repo           string
	Output         string
	Format         string
	Markers        []string
	IndexerName    string
	ReferenceLabel string
	CandidateLabel string
	Jobs           int
	RenameHints    bool
	FailOnDiff     bool

	// changed records the flags set on the command line; config file
	// values only fill the others. A nil map means the options were built
	// directly and every value is explicit.
	changed map[string]bool
}

// CompareRunFunc is the function signature for the compare command handler.
// It is injected by the wiring layer (cmd/surfacediff/main.go).
type CompareRunFunc func(ctx context.Context, globals GlobalOptions, opts CompareOptions) error

// NewCompareCmd creates the "compare" subcommand.
func NewCompareCmd(globals *GlobalOptions, runFunc CompareRunFunc) *cobra.Command {
	var opts CompareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a candidate API surface against a reference",
		Long: "Compare a candidate API surface against a reference and report missing and extra\n" +
			"types and members. Sources may be Go module directories, module@version references\n" +
			"fetched from GOPROXY, bare module paths pinned by --repo, or snapshot files.",
		Example: "  surfacediff compare --reference ./v1 --candidate ./v2\n" +
			"  surfacediff compare --reference github.com/acme/lib@v1.4.0 --candidate . --output -\n" +
			"  surfacediff compare --reference ref.json --candidate fna.yaml --candidate-label FNA",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateCompareFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.changed = changedFlags(cmd)
			return runFunc(cmd.Context(), *globals, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Reference, "reference", "", "Reference surface source (required)")
	f.StringVar(&opts.Candidate, "candidate", "", "Candidate surface source (required)")
	f.StringVar(&opts.Repo, "repo", "", "Repository whose go.mod pins versions of bare module paths")
	f.StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Report file, or - for stdout")
	f.StringVar(&opts.Format, "format", string(report.FormatText), "Report format: text, json or yaml")
	f.StringArrayVar(&opts.Markers, "marker", nil, "Origin-qualifier marker stripped from type names (repeatable, taken verbatim)")
	f.StringVar(&opts.IndexerName, "indexer-name", "", "Property name treated as an indexer (default \"Item\")")
	f.StringVar(&opts.ReferenceLabel, "reference-label", "Reference", "Name of the reference side in logs")
	f.StringVar(&opts.CandidateLabel, "candidate-label", report.DefaultCandidateLabel, "Name of the candidate side in report headings")
	f.IntVarP(&opts.Jobs, "jobs", "j", 1, "Types compared concurrently (0 = one per CPU)")
	f.BoolVar(&opts.RenameHints, "rename-hints", false, "Suggest likely renames between missing and extra members")
	f.BoolVar(&opts.FailOnDiff, "fail-on-diff", false, "Exit with status 1 when the surfaces differ")

	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("candidate")

	return cmd
}

func validateCompareFlags(opts CompareOptions) error {
	if opts.Reference == "" {
		return fmt.Errorf("--reference is required")
	}
	if opts.Candidate == "" {
		return fmt.Errorf("--candidate is required")
	}
	if opts.Output == "" {
		return fmt.Errorf("--output must not be empty (use - for stdout)")
	}
	if _, err := report.ParseFormat(opts.Format); err != nil {
		return err
	}
	if opts.Jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}
	if opts.Repo != "" {
		if err := checkDir(opts.Repo); err != nil {
			return err
		}
	}
	return nil
}

// ApplyConfig fills every option not set on the command line from cfg.
func (o *CompareOptions) ApplyConfig(cfg config.Config) {
	set := func(name string) bool { return o.changed == nil || o.changed[name] }

	if !set("output") && cfg.Output != "" {
		o.Output = cfg.Output
	}
	if !set("format") && cfg.Format != "" {
		o.Format = cfg.Format
	}
	if !set("indexer-name") && cfg.IndexerName != "" {
		o.IndexerName = cfg.IndexerName
	}
	if !set("reference-label") && cfg.ReferenceLabel != "" {
		o.ReferenceLabel = cfg.ReferenceLabel
	}
	if !set("candidate-label") && cfg.CandidateLabel != "" {
		o.CandidateLabel = cfg.CandidateLabel
	}
	if !set("jobs") && cfg.Jobs != 0 {
		o.Jobs = cfg.Jobs
	}
	if !set("rename-hints") {
		o.RenameHints = o.RenameHints || cfg.RenameHints
	}
	if !set("fail-on-diff") {
		o.FailOnDiff = o.FailOnDiff || cfg.FailOnDiff
	}
	// Markers accumulate: the config file's list plus any given as flags.
	o.Markers = append(append([]string(nil), cfg.Markers...), o.Markers...)
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = true
	})
	return changed
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("repo path does not exist: %s", path)
		}
		return fmt.Errorf("cannot access repo path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repo path is not a directory: %s", path)
	}
	return nil
}
