package cli

import (
	"github.com/spf13/cobra"
)

// GlobalOptions holds the persistent flags shared by every subcommand.
type GlobalOptions struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd creates the top-level surfacediff command.
func NewRootCmd(version string, globals *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surfacediff",
		Short: "Compare the public API surfaces of two component sets",
		Long: "surfacediff loads a reference and a candidate API surface, compares their types\n" +
			"and members, and writes a report of everything missing from or extra in the candidate.",
		SilenceUsage: true,
	}

	cmd.Version = version

	cmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to a TOML config file (default ./surfacediff.toml if present)")

	return cmd
}
