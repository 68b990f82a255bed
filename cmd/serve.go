package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ipc"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the region daemon",
	Long: `Run the region daemon. Every connection to its socket is one Wayland
client; the regions and surfaces a client creates are destroyed when it
disconnects.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	compositor := newCompositor()
	srv, err := ipc.NewSocketServer(ipc.NewCompositorHandler(compositor), cfg.IPC.SocketPath)
	if err != nil {
		return err
	}

	if ipc.IsRunning(srv.SocketPath(), cfg.IPC.Timeout()) {
		return fmt.Errorf("a wlregion daemon is already listening on %s", srv.SocketPath())
	}

	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("wlregion daemon ready", "socket", srv.SocketPath(), "max_rectangles", cfg.Region.MaxRectangles)
	<-ctx.Done()

	logger.Info("Shutting down", "clients", len(compositor.Clients()), "regions", compositor.Registry().Len())
	srv.Stop()
	return nil
}
