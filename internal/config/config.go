// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Region  RegionConfig  `mapstructure:"region"`
	IPC     IPCConfig     `mapstructure:"ipc"`
	Render  RenderConfig  `mapstructure:"render"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RegionConfig contains region algebra limits
type RegionConfig struct {
	// MaxRectangles caps rectangles per region; past it the region collapses
	// to its bounding box. 0 disables the cap.
	MaxRectangles int `mapstructure:"max_rectangles"`
}

// IPCConfig contains daemon socket settings
type IPCConfig struct {
	SocketPath string `mapstructure:"socket_path"` // Empty means /tmp/wlregion-<user>.sock
	TimeoutMS  int    `mapstructure:"timeout_ms"`
}

// RenderConfig controls the character map used to draw regions
type RenderConfig struct {
	Columns int `mapstructure:"columns"`
	Rows    int `mapstructure:"rows"`
}

// WatchConfig contains live view settings
type WatchConfig struct {
	IntervalMS int `mapstructure:"interval_ms"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

// Timeout returns the IPC timeout as a duration
func (c IPCConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Interval returns the watch polling interval as a duration
func (c WatchConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Region: RegionConfig{
			MaxRectangles: 256,
		},
		IPC: IPCConfig{
			SocketPath: "",
			TimeoutMS:  5000,
		},
		Render: RenderConfig{
			Columns: 64,
			Rows:    24,
		},
		Watch: WatchConfig{
			IntervalMS: 500,
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("wlregion")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wlregion"))
		}
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("region.max_rectangles", DefaultConfig.Region.MaxRectangles)
	viper.SetDefault("ipc.socket_path", DefaultConfig.IPC.SocketPath)
	viper.SetDefault("ipc.timeout_ms", DefaultConfig.IPC.TimeoutMS)
	viper.SetDefault("render.columns", DefaultConfig.Render.Columns)
	viper.SetDefault("render.rows", DefaultConfig.Render.Rows)
	viper.SetDefault("watch.interval_ms", DefaultConfig.Watch.IntervalMS)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	viper.SetEnvPrefix("WLREGION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	return nil
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.Region.MaxRectangles < 0 {
		return fmt.Errorf("region.max_rectangles must be >= 0, got %d", c.Region.MaxRectangles)
	}
	if c.IPC.TimeoutMS <= 0 {
		return fmt.Errorf("ipc.timeout_ms must be > 0, got %d", c.IPC.TimeoutMS)
	}
	if c.Render.Columns < 1 || c.Render.Rows < 1 {
		return fmt.Errorf("render size must be at least 1x1, got %dx%d", c.Render.Columns, c.Render.Rows)
	}
	if c.Watch.IntervalMS <= 0 {
		return fmt.Errorf("watch.interval_ms must be > 0, got %d", c.Watch.IntervalMS)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save writes c to the config file
func Save(c *Config) error {
	configPath := GetConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("region.max_rectangles", c.Region.MaxRectangles)
	viper.Set("ipc.socket_path", c.IPC.SocketPath)
	viper.Set("ipc.timeout_ms", c.IPC.TimeoutMS)
	viper.Set("render.columns", c.Render.Columns)
	viper.Set("render.rows", c.Render.Rows)
	viper.Set("watch.interval_ms", c.Watch.IntervalMS)
	viper.Set("logging.log_level", c.Logging.LogLevel)

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cfg = c
	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "wlregion.toml"
	}
	return filepath.Join(home, ".config", "wlregion", "wlregion.toml")
}
