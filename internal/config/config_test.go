package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfg = nil
	configPathOverride = ""
	t.Cleanup(func() {
		viper.Reset()
		cfg = nil
		configPathOverride = ""
	})
}

func TestInit(t *testing.T) {
	t.Run("initializes with defaults when no config exists", func(t *testing.T) {
		resetConfig(t)
		t.Setenv("HOME", t.TempDir())
		chdir(t, t.TempDir())

		require.NoError(t, Init())

		c := Get()
		require.NotNil(t, c)
		assert.Equal(t, 256, c.Region.MaxRectangles)
		assert.Equal(t, 5*time.Second, c.IPC.Timeout())
		assert.Equal(t, 500*time.Millisecond, c.Watch.Interval())
		assert.Equal(t, 64, c.Render.Columns)
	})

	t.Run("reads values from file", func(t *testing.T) {
		resetConfig(t)
		path := filepath.Join(t.TempDir(), "wlregion.toml")
		content := `[region]
max_rectangles = 16

[ipc]
socket_path = "/tmp/test.sock"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		SetConfigPath(path)

		require.NoError(t, Init())

		c := Get()
		assert.Equal(t, 16, c.Region.MaxRectangles)
		assert.Equal(t, "/tmp/test.sock", c.IPC.SocketPath)
		assert.Equal(t, 5000, c.IPC.TimeoutMS)
		assert.Equal(t, path, GetConfigPath())
	})

	t.Run("handles invalid TOML", func(t *testing.T) {
		resetConfig(t)
		path := filepath.Join(t.TempDir(), "wlregion.toml")
		require.NoError(t, os.WriteFile(path, []byte("[region\nmax_rectangles = 1"), 0644))
		SetConfigPath(path)

		assert.Error(t, Init())
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		resetConfig(t)
		path := filepath.Join(t.TempDir(), "wlregion.toml")
		require.NoError(t, os.WriteFile(path, []byte("[region]\nmax_rectangles = -1\n"), 0644))
		SetConfigPath(path)

		assert.ErrorContains(t, Init(), "max_rectangles")
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		resetConfig(t)
		t.Setenv("HOME", t.TempDir())
		chdir(t, t.TempDir())
		t.Setenv("WLREGION_REGION_MAX_RECTANGLES", "8")

		require.NoError(t, Init())
		assert.Equal(t, 8, Get().Region.MaxRectangles)
	})
}

func TestGetReturnsDefaultsCopy(t *testing.T) {
	resetConfig(t)

	c := Get()
	c.Region.MaxRectangles = 1
	assert.Equal(t, 256, DefaultConfig.Region.MaxRectangles)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"cap disabled", func(c *Config) { c.Region.MaxRectangles = 0 }, false},
		{"zero timeout", func(c *Config) { c.IPC.TimeoutMS = 0 }, true},
		{"zero columns", func(c *Config) { c.Render.Columns = 0 }, true},
		{"negative interval", func(c *Config) { c.Watch.IntervalMS = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestSave(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "nested", "wlregion.toml")
	SetConfigPath(path)

	c := DefaultConfig
	c.Region.MaxRectangles = 32
	require.NoError(t, Save(&c))

	viper.Reset()
	cfg = nil
	require.NoError(t, Init())
	assert.Equal(t, 32, Get().Region.MaxRectangles)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
