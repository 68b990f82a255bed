package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/region"
	"github.com/bnema/wlregion/internal/ui"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval OP...",
	Short: "Apply add/subtract operations to a scratch region",
	Long: `Apply operations in order to an empty region and print the result.
"+x,y,w,h" adds a rectangle and "-x,y,w,h" subtracts one:

  wlregion eval +0,0,100,100 -25,25,50,50
  wlregion eval --config ./wlregion.toml -- -5,0,10,10`,
	Args: cobra.MinimumNArgs(1),
	// Subtract operations look like shorthand flags, so --config is read
	// by splitEvalArgs instead.
	DisableFlagParsing: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _, _, err := splitEvalArgs(args)
		if err != nil {
			return err
		}
		if path != "" {
			configFile = path
		}
		return loadConfig(cmd, args)
	},
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

type evalOp struct {
	add  bool
	rect geom.Rect
}

func parseEvalOp(s string) (evalOp, error) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return evalOp{}, fmt.Errorf("invalid operation %q: want +x,y,w,h or -x,y,w,h", s)
	}
	rect, err := geom.Parse(s[1:])
	if err != nil {
		return evalOp{}, fmt.Errorf("invalid operation %q: %w", s, err)
	}
	return evalOp{add: s[0] == '+', rect: rect}, nil
}

// splitEvalArgs separates the root --config flag and help flags from the
// operations. Everything after "--" is an operation.
func splitEvalArgs(args []string) (configPath string, ops []string, help bool, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return configPath, append(ops, args[i+1:]...), help, nil
		case arg == "-h" || arg == "--help":
			help = true
		case arg == "--config":
			if i+1 >= len(args) {
				return "", nil, false, fmt.Errorf("flag needs an argument: --config")
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			ops = append(ops, arg)
		}
	}
	return configPath, ops, help, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	_, opArgs, help, err := splitEvalArgs(args)
	if err != nil {
		return err
	}
	if help {
		return cmd.Help()
	}
	if len(opArgs) == 0 {
		return fmt.Errorf("no operations given")
	}

	ops := make([]evalOp, 0, len(opArgs))
	for _, arg := range opArgs {
		op, err := parseEvalOp(arg)
		if err != nil {
			return err
		}
		ops = append(ops, op)
	}

	cfg := config.Get()
	r := region.New(region.NextID(), region.WithMaxRectangles(cfg.Region.MaxRectangles))
	for _, op := range ops {
		if op.add {
			r.Add(op.rect)
		} else {
			r.Subtract(op.rect)
		}
	}

	rects := r.Rectangles()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.FormatRectTable(rects))
	fmt.Fprintln(out, ui.RenderRegion(rects, cfg.Render.Columns, cfg.Render.Rows))
	return nil
}
