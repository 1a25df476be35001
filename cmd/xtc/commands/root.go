// Package commands implements the CLI commands for xtc.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/xtc/internal/adapters/config"
	"go.trai.ch/xtc/internal/app"
	"go.trai.ch/xtc/internal/build"
)

// CLI represents the command line interface for xtc.
type CLI struct {
	app      Application
	settings *config.Settings
	rootCmd  *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, triplet string, opts app.BuildOptions) error
	Batch(ctx context.Context, opts app.BatchOptions) error
	Targets() error
	History(limit int) error
	ShowRun(id string) error
}

// New creates a new CLI instance with the given app and settings.
func New(a Application, settings *config.Settings) *CLI {
	rootCmd := &cobra.Command{
		Use:           "xtc",
		Short:         "Build cross-compiler toolchains for embedded targets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	// -v is taken by --verbose.
	rootCmd.Flags().Bool("version", false, "Print the application version")
	rootCmd.InitDefaultVersionFlag()

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().String("config", "", "Settings file (default: ./xtc.yaml or $HOME/.config/xtc/xtc.yaml)")
	rootCmd.PersistentFlags().String("root", defaultRoot(), "Top-level directory holding gnu/, llvm/ and libs/")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug output on the console")

	c := &CLI{
		app:      a,
		settings: settings,
		rootCmd:  rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := c.settings.BindFlags(cmd.Flags()); err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("config")
		return c.settings.Load(file)
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newBatchCmd())
	rootCmd.AddCommand(c.newTargetsCmd())
	rootCmd.AddCommand(c.newHistoryCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// defaultRoot is the parent of the directory holding the xtc binary, so a
// checkout with xtc built into <root>/bin works without flags.
func defaultRoot() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}
