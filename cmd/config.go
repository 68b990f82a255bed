package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/wlregion/internal/config"
	"github.com/bnema/wlregion/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wlregion configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.FormatAppHeader("Configuration", config.GetConfigPath()))
		fmt.Fprintln(out)

		section := func(name string) {
			fmt.Fprintln(out, ui.SubheaderStyle.Render("["+name+"]"))
		}
		field := func(key string, value interface{}) {
			fmt.Fprintf(out, "  %s = %s\n", key, ui.InfoStyle.Render(fmt.Sprint(value)))
		}

		section("region")
		field("max_rectangles", cfg.Region.MaxRectangles)
		section("ipc")
		socketPath := cfg.IPC.SocketPath
		if socketPath == "" {
			socketPath = "(default)"
		}
		field("socket_path", socketPath)
		field("timeout_ms", cfg.IPC.TimeoutMS)
		section("render")
		field("columns", cfg.Render.Columns)
		field("rows", cfg.Render.Rows)
		section("watch")
		field("interval_ms", cfg.Watch.IntervalMS)
		section("logging")
		level := cfg.Logging.LogLevel
		if level == "" {
			level = "(LOG_LEVEL)"
		}
		field("log_level", level)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a configuration file. An interactive form asks for the main
settings unless --defaults is given.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing configuration")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "Write defaults without prompting")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath := config.GetConfigPath()

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		fmt.Fprintln(out, ui.WarningStyle.Render("Configuration already exists at "+configPath))
		fmt.Fprintln(out, ui.SubtleStyle.Render("Use --force to overwrite"))
		return nil
	}

	c := *config.Get()
	if configInitDefaults {
		c = config.DefaultConfig
	} else {
		if err := promptConfig(&c); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(out, ui.SubtleStyle.Render("Aborted"))
				return nil
			}
			return err
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := config.Save(&c); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.FormatResult(true, "Configuration written to "+configPath))
	return nil
}

func promptConfig(c *config.Config) error {
	maxRects := strconv.Itoa(c.Region.MaxRectangles)
	socketPath := c.IPC.SocketPath
	level := c.Logging.LogLevel

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Maximum rectangles per region").
				Description("Regions past this size collapse to their bounding box. 0 disables the limit.").
				Value(&maxRects).
				Validate(validateNonNegative),
			huh.NewInput().
				Title("Daemon socket path").
				Description("Leave empty for the per-user default in the temp directory.").
				Value(&socketPath),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("From LOG_LEVEL", ""),
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&level),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, _ := strconv.Atoi(strings.TrimSpace(maxRects))
	c.Region.MaxRectangles = n
	c.IPC.SocketPath = strings.TrimSpace(socketPath)
	c.Logging.LogLevel = level
	return nil
}

func validateNonNegative(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < 0 {
		return fmt.Errorf("must be 0 or more")
	}
	return nil
}
