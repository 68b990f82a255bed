package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ipc"
	"github.com/bnema/wlregion/internal/ui"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of the region daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		sess, err := ipc.Dial(cfg.IPC.SocketPath, cfg.IPC.Timeout())
		if err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render("○ wlregion daemon is not running"))
			return nil
		}
		defer sess.Close()

		status, err := sess.Status()
		if err != nil {
			return fmt.Errorf("failed to get daemon status: %w", err)
		}

		var content strings.Builder
		content.WriteString(ui.SuccessStyle.Render("● Running"))
		content.WriteString("\n")
		content.WriteString(ui.SubheaderStyle.Render("Clients: "))
		content.WriteString(ui.InfoStyle.Render(fmt.Sprint(status.Clients)))
		content.WriteString("\n")
		content.WriteString(ui.SubheaderStyle.Render("Regions: "))
		content.WriteString(ui.InfoStyle.Render(fmt.Sprint(status.Regions)))

		fmt.Fprintln(out, ui.FormatAppHeader("DAEMON STATUS", ""))
		fmt.Fprintln(out, ui.BoxStyle.Render(content.String()))
		fmt.Fprintln(out, ui.SubtleStyle.Render("This status request counts as one client"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
