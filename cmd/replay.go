package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ipc"
	"github.com/bnema/wlregion/internal/replay"
	"github.com/bnema/wlregion/internal/ui"
	"github.com/spf13/cobra"
)

var _ replay.Target = (*ipc.Session)(nil)

var replayLocal bool

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Run a request script",
	Long: `Run a script of wl_region and wl_surface requests, one per line:

  region 1
  add 1 0,0,100,100
  subtract 1 25,25,50,50
  get 1

Use "-" to read the script from stdin. The script runs as a daemon client
unless --local is given. The run stops at the first protocol error.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLocal, "local", false, "Run against an in-process compositor instead of the daemon")
}

func runReplay(cmd *cobra.Command, args []string) error {
	var src io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	cmds, err := replay.Parse(src)
	if err != nil {
		return err
	}

	var target replay.Target
	if replayLocal {
		client := newCompositor().NewClient()
		defer client.Disconnect()
		target = client
	} else {
		sess, err := dialDaemon()
		if err != nil {
			return err
		}
		defer sess.Close()
		target = sess
	}

	results, runErr := replay.Run(target, cmds)
	printResults(cmd.OutOrStdout(), results)
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, ui.FormatCount(len(results), "request")+" applied"))
	return nil
}

func printResults(out io.Writer, results []replay.Result) {
	cfg := config.Get()
	for _, res := range results {
		switch res.Command.Op {
		case replay.OpGet:
			fmt.Fprintln(out, ui.SubheaderStyle.Render(fmt.Sprintf("line %d: wl_region@%d", res.Command.Line, res.Command.Object)))
			fmt.Fprintln(out, ui.FormatRectTable(res.Rects))
			fmt.Fprintln(out, ui.RenderRegion(res.Rects, cfg.Render.Columns, cfg.Render.Rows))
			fmt.Fprintln(out)

		case replay.OpState:
			if res.State == nil {
				continue
			}
			fmt.Fprintln(out, ui.SubheaderStyle.Render(fmt.Sprintf("line %d: wl_surface@%d", res.Command.Line, res.Command.Object)))
			if res.State.InfiniteInput {
				fmt.Fprintln(out, ui.TextStyle.Render("input: infinite"))
			} else {
				fmt.Fprintln(out, ui.TextStyle.Render("input:"))
				fmt.Fprintln(out, ui.FormatRectTable(res.State.Input))
			}
			fmt.Fprintln(out, ui.TextStyle.Render("opaque:"))
			fmt.Fprintln(out, ui.FormatRectTable(res.State.Opaque))
			fmt.Fprintln(out, ui.TextStyle.Render("damage:"))
			fmt.Fprintln(out, ui.FormatRectTable(res.State.Damage))
			fmt.Fprintln(out)

		case replay.OpHit:
			if res.Hit == nil {
				continue
			}
			verdict := "rejected"
			if *res.Hit {
				verdict = "accepted"
			}
			fmt.Fprintf(out, "line %d: input at %d,%d on wl_surface@%d %s\n",
				res.Command.Line, res.Command.X, res.Command.Y, res.Command.Object, verdict)
		}
	}
}
