package cmd

import (
	"io"
	"os"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the daemon's regions live",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := dialDaemon()
		if err != nil {
			return err
		}
		defer sess.Close()

		cfg := config.Get()
		model := ui.NewWatchModel(sess.List, cfg.Watch.Interval(), cfg.Render.Columns, cfg.Render.Rows)

		// Log lines would tear the alternate screen.
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
