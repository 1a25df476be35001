package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/xtc/internal/app"
)

func (c *CLI) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build every toolchain version of a catalog",
		Long: "Checks out each catalog entry's source revisions in turn and builds a clean\n" +
			"toolchain per triplet into build-<arch>-<label> and install-<arch>-<label>.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Batch(cmd.Context(), app.BatchOptions{
				Catalog:  c.settings.String("catalog"),
				Only:     c.settings.Strings("only"),
				Root:     c.settings.String("root"),
				LogDir:   c.settings.String("logdir"),
				Timeouts: c.timeouts(),
				Jobs:     c.settings.Int("jobs"),
				Package:  c.packageOptions(),
				Verbose:  c.settings.Bool("verbose"),
			})
		},
	}

	fs := cmd.Flags()
	fs.String("catalog", "", "YAML build catalog (default: the built-in GCC release list)")
	fs.StringSlice("only", nil, "Build only the catalog entries with these labels")

	addTimeoutFlags(fs)
	addPackageFlags(fs)
	return cmd
}
