package cmd

import (
	"fmt"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ipc"
	"github.com/bnema/wlregion/internal/logger"
	"github.com/bnema/wlregion/internal/protocol"
	"github.com/bnema/wlregion/internal/region"
	"github.com/spf13/cobra"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "wlregion",
		Short: "wlregion - Wayland region manager",
		Long: `wlregion implements the wl_region and wl_surface region requests of a
Wayland compositor. It runs as a daemon that clients drive over a Unix socket,
and can replay request scripts locally or against the daemon.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/wlregion/wlregion.toml)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.Init(); err != nil {
		return err
	}
	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}

// dialDaemon opens a session using the configured socket
func dialDaemon() (*ipc.Session, error) {
	cfg := config.Get()
	sess, err := ipc.Dial(cfg.IPC.SocketPath, cfg.IPC.Timeout())
	if err != nil {
		return nil, fmt.Errorf("%w (start it with 'wlregion serve')", err)
	}
	return sess, nil
}

// newCompositor builds a compositor honoring the configured region limits
func newCompositor() *protocol.Compositor {
	cfg := config.Get()
	return protocol.NewCompositor(region.NewRegistry(region.WithMaxRectangles(cfg.Region.MaxRectangles)))
}
