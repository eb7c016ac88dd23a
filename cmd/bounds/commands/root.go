// Package commands implements the CLI commands for bounds.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bounds/internal/app"
	"go.trai.ch/bounds/internal/build"
	"go.trai.ch/bounds/internal/core/domain"
)

// CLI represents the command line interface for bounds.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Test(ctx context.Context, opts app.TestOptions) (*domain.RunReport, error)
	Minimize(ctx context.Context, opts app.MinimizeOptions) (map[string]domain.BoundResult, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bounds",
		Short:         "Find the dependency versions a Cargo project really works with",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Registered before the version flag so that -v stays with --verbose.
	rootCmd.PersistentFlags().String("config", "",
		"Path to the configuration file (default: bounds.yaml, searched upwards)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON and disable progress output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Stream check command output and debug logs")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"
	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newMinimizeCmd())
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

func globalOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	verbose, _ := cmd.Flags().GetBool("verbose")

	return app.Options{
		ConfigPath: configPath,
		JSONLogs:   jsonLogs,
		Verbose:    verbose,
	}
}
