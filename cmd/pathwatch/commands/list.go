package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [root]",
		Short: "Print the current workspace snapshot as one workspaceUpdated message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.List(cmd.Context(), rootArg(args), cmd.OutOrStdout())
		},
	}
}
