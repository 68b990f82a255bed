package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{" DEBUG ", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"info", log.InfoLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(os.Getenv("LOG_LEVEL"))
	})

	SetLevel("warn")
	Infof("region %d created", 1)
	assert.Empty(t, buf.String())

	Warnf("region %d collapsed", 1)
	assert.Contains(t, buf.String(), "region 1 collapsed")
	assert.Contains(t, buf.String(), "wlregion")

	buf.Reset()
	SetLevel("debug")
	Debug("registry", "regions", 3)
	assert.Contains(t, buf.String(), "regions=3")
}
