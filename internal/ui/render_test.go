package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bnema/wlregion/internal/geom"
	"github.com/bnema/wlregion/internal/protocol"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionMap(t *testing.T) {
	tests := []struct {
		name  string
		rects []geom.Rect
		cols  int
		rows  int
		want  []string
	}{
		{
			name:  "empty",
			rects: []geom.Rect{geom.New(0, 0, 0, 10)},
			cols:  4,
			rows:  4,
			want:  nil,
		},
		{
			name: "square with hole",
			rects: []geom.Rect{
				geom.New(0, 0, 100, 25),
				geom.New(0, 75, 100, 25),
				geom.New(0, 25, 25, 50),
				geom.New(75, 25, 25, 50),
			},
			cols: 4,
			rows: 4,
			want: []string{
				"####",
				"#..#",
				"#..#",
				"####",
			},
		},
		{
			name:  "two separate squares",
			rects: []geom.Rect{geom.New(0, 0, 10, 10), geom.New(20, 0, 10, 10)},
			cols:  3,
			rows:  1,
			want:  []string{"#.#"},
		},
		{
			name:  "small region is not upscaled",
			rects: []geom.Rect{geom.New(5, 5, 2, 1)},
			cols:  10,
			rows:  10,
			want:  []string{"##"},
		},
		{
			name:  "thin sliver still shows",
			rects: []geom.Rect{geom.New(0, 0, 100, 100), geom.New(200, 0, 1, 100)},
			cols:  3,
			rows:  1,
			want:  []string{"#.#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionMap(tt.rects, tt.cols, tt.rows))
		})
	}
}

func TestRegionMap_ClampsSize(t *testing.T) {
	lines := RegionMap([]geom.Rect{geom.New(0, 0, 1000, 1000)}, 0, -3)
	assert.Equal(t, []string{"#"}, lines)
}

func TestRenderRegion(t *testing.T) {
	assert.Contains(t, RenderRegion(nil, 10, 10), "empty region")

	out := RenderRegion([]geom.Rect{geom.New(0, 0, 10, 10)}, 2, 2)
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "extents 10x10+0+0")
}

func TestFormatRectTable(t *testing.T) {
	out := FormatRectTable([]geom.Rect{geom.New(0, 0, 10, 10), geom.New(20, 0, 5, 2)})
	assert.Contains(t, out, "2 rectangles, total area 110")
	assert.Equal(t, 4, strings.Count(out, "\n")+1)

	assert.Contains(t, FormatRectTable(nil), "0 rectangles, total area 0")
}

func TestWatchModel(t *testing.T) {
	infos := []protocol.RegionInfo{
		{Client: 1, ObjectID: 3, ID: 10, Rectangles: []geom.Rect{geom.New(0, 0, 10, 10)}},
		{Client: 2, ObjectID: 4, ID: 11},
	}
	calls := 0
	fetch := func() ([]protocol.RegionInfo, error) {
		calls++
		return infos, nil
	}

	m := NewWatchModel(fetch, time.Second, 8, 4)
	cmd := m.Init()
	require.NotNil(t, cmd)

	msg := cmd()
	_, next := m.Update(msg)
	assert.NotNil(t, next, "expected a tick to be scheduled")
	assert.Equal(t, 1, calls)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, uint32(3), sel.ObjectID)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, uint32(4), sel.ObjectID)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, uint32(4), sel.ObjectID)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	sel, _ = m.Selected()
	assert.Equal(t, uint32(3), sel.ObjectID)

	view := m.View()
	assert.Contains(t, view, "wl_region@3")
	assert.Contains(t, view, "wl_region@4")
	assert.Contains(t, view, "refresh")

	// Shrinking the list keeps the selection in range.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	infos = infos[:1]
	m.Update(cmd())
	sel, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, uint32(3), sel.ObjectID)

	_, quit := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, quit)
	assert.IsType(t, tea.QuitMsg{}, quit())
}

func TestWatchModel_FetchError(t *testing.T) {
	m := NewWatchModel(func() ([]protocol.RegionInfo, error) {
		return nil, errors.New("wlregion daemon is not running")
	}, time.Second, 8, 4)

	m.Update(m.Init()())
	assert.Contains(t, m.View(), "not running")
	assert.Contains(t, m.View(), "No regions")
}
