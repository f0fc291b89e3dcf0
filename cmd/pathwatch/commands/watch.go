package commands

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/pathwatch/internal/adapters/detector"
	"go.trai.ch/pathwatch/internal/app"
	"go.trai.ch/pathwatch/internal/ui/output"
	"go.trai.ch/pathwatch/internal/ui/style"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Track a project and publish workspace updates until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			stdout, _ := cmd.Flags().GetBool("stdout")
			noServer, _ := cmd.Flags().GetBool("no-server")

			stderr := cmd.ErrOrStderr()
			return c.app.Watch(cmd.Context(), rootArg(args), app.WatchOptions{
				Listen:   listen,
				Stdout:   stdout,
				NoServer: noServer,
				Ready: func(addr string) {
					if addr != "" {
						printReady(stderr, addr)
					}
				},
			})
		},
	}
	cmd.Flags().StringP("listen", "l", "", "Websocket server address (overrides the config file)")
	cmd.Flags().Bool("stdout", false, "Also write every update to stdout as a JSON line")
	cmd.Flags().Bool("no-server", false, "Do not start the websocket server; write updates to stdout")
	return cmd
}

// printReady announces the websocket endpoint.
func printReady(w io.Writer, addr string) {
	var out *termenv.Output
	if detector.IsCI() {
		out = output.NewWithProfile(w, output.ColorProfileANSI)
	} else {
		out = output.New(w)
	}

	icon := out.String(style.Check).Foreground(termenv.RGBColor(string(style.Green)))
	_, _ = out.WriteString(icon.String() + " ready on ws://" + addr + "/ws\n")
}
