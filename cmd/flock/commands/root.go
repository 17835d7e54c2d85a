// Package commands implements the flock command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/flock/internal/build"
)

// CLI represents the command line interface for flock.
type CLI struct {
	app      Application
	rootCmd  *cobra.Command
	jsonLogs func(bool)
}

// Application is the application logic driven by the commands.
type Application interface {
	Show(ctx context.Context, out io.Writer, paths []string) error
	Check(ctx context.Context, path string) error
	Save(ctx context.Context, in, out string) error
	Snapshot(ctx context.Context, in string) (string, error)
	Fetch(ctx context.Context, digest string) ([]byte, error)
	Watch(ctx context.Context, path string, out io.Writer) error
}

// Option configures a CLI.
type Option func(*CLI)

// WithLogFormat registers fn to switch the logger to JSON when --json-logs is given.
func WithLogFormat(fn func(json bool)) Option {
	return func(c *CLI) {
		c.jsonLogs = fn
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "flock",
		Short:         "Evaluate self-referential character sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

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
	for _, opt := range opts {
		opt(c)
	}

	var jsonLogs bool
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if jsonLogs && c.jsonLogs != nil {
			c.jsonLogs(true)
		}
	}

	rootCmd.AddCommand(
		c.newShowCmd(),
		c.newCheckCmd(),
		c.newSaveCmd(),
		c.newSnapshotCmd(),
		c.newWatchCmd(),
		c.newVersionCmd(),
	)

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
