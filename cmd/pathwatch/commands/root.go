// Package commands implements the CLI commands for pathwatch.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/pathwatch/internal/app"
	"go.trai.ch/pathwatch/internal/build"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for pathwatch.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Watch(ctx context.Context, root string, opts app.WatchOptions) error
	List(ctx context.Context, root string, w io.Writer) error
	SetLogFormat(flag string)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "pathwatch",
		Short:         "Live, debounced list of the interesting files in a project",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("log-format")
			if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
				format = "json"
			}
			switch format {
			case "auto", "pretty", "json":
			default:
				return zerr.With(domain.ErrInvalidLogFormat, "value", format)
			}
			c.app.SetLogFormat(format)
			return nil
		},
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

	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty, or json")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON (shorthand for --log-format=json)")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newListCmd())
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

func rootArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
