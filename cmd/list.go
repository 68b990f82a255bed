package cmd

import (
	"fmt"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ui"
	"github.com/spf13/cobra"
)

var listShowMap bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the regions held by the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := dialDaemon()
		if err != nil {
			return err
		}
		defer sess.Close()

		infos, err := sess.List()
		if err != nil {
			return fmt.Errorf("failed to list regions: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatAppHeader("REGIONS", ui.FormatCount(len(infos), "region")))
		fmt.Fprintln(out)

		if len(infos) == 0 {
			fmt.Fprintln(out, ui.SubtleStyle.Render("No regions"))
			return nil
		}

		cfg := config.Get()
		for _, info := range infos {
			fmt.Fprintln(out, ui.SubheaderStyle.Render(fmt.Sprintf("client %d  wl_region@%d  region %s",
				info.Client, info.ObjectID, info.ID)))
			fmt.Fprintln(out, ui.FormatRectTable(info.Rectangles))
			if listShowMap {
				fmt.Fprintln(out, ui.RenderRegion(info.Rectangles, cfg.Render.Columns, cfg.Render.Rows))
			}
			fmt.Fprintln(out, ui.CreateSeparator(0))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listShowMap, "map", "m", false, "Draw each region")
}
