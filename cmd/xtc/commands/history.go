package commands

import "github.com/spf13/cobra"

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent toolchain builds, or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.app.ShowRun(args[0])
			}
			return c.app.History(c.settings.Int("limit"))
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Number of runs to list (0 lists all)")
	return cmd
}
