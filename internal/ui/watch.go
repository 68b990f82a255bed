package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/wlregion/internal/protocol"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var watchKeys = watchKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// FetchFunc returns the live regions, typically from the daemon
type FetchFunc func() ([]protocol.RegionInfo, error)

type regionsMsg struct {
	infos []protocol.RegionInfo
	err   error
}

type tickMsg time.Time

// WatchModel polls the daemon and draws the selected region
type WatchModel struct {
	fetch    FetchFunc
	interval time.Duration
	cols     int
	rows     int

	infos    []protocol.RegionInfo
	selected int
	err      error
	updated  time.Time
	help     help.Model
}

// NewWatchModel creates a watch view. cols and rows bound the region map.
func NewWatchModel(fetch FetchFunc, interval time.Duration, cols, rows int) *WatchModel {
	return &WatchModel{
		fetch:    fetch,
		interval: interval,
		cols:     cols,
		rows:     rows,
		help:     help.New(),
	}
}

func (m *WatchModel) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m *WatchModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		infos, err := m.fetch()
		return regionsMsg{infos: infos, err: err}
	}
}

func (m *WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, watchKeys.Down):
			if m.selected < len(m.infos)-1 {
				m.selected++
			}
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.fetchCmd()
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case regionsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.infos = msg.infos
			m.updated = time.Now()
			if m.selected >= len(m.infos) {
				m.selected = max(len(m.infos)-1, 0)
			}
		}
		return m, m.tickCmd()

	case tickMsg:
		return m, m.fetchCmd()
	}
	return m, nil
}

// Selected returns the highlighted region, if any
func (m *WatchModel) Selected() (protocol.RegionInfo, bool) {
	if m.selected < 0 || m.selected >= len(m.infos) {
		return protocol.RegionInfo{}, false
	}
	return m.infos[m.selected], true
}

func (m *WatchModel) View() string {
	var b strings.Builder

	subtitle := ""
	if !m.updated.IsZero() {
		subtitle = "updated " + m.updated.Format("15:04:05")
	}
	b.WriteString(FormatAppHeader("wlregion watch", subtitle))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s %v", IconError, m.err)))
		b.WriteString("\n\n")
	}

	if len(m.infos) == 0 {
		b.WriteString(SubtleStyle.Render("No regions"))
		b.WriteString("\n")
	}
	for i, info := range m.infos {
		line := fmt.Sprintf("client %d  wl_region@%d  region %s  %s",
			info.Client, info.ObjectID, info.ID, FormatCount(len(info.Rectangles), "rectangle"))
		if i == m.selected {
			b.WriteString(SelectedStyle.Render("› " + line))
		} else {
			b.WriteString(TextStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if info, ok := m.Selected(); ok {
		b.WriteString("\n")
		b.WriteString(RenderRegion(info.Rectangles, m.cols, m.rows))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(watchKeys))
	b.WriteString("\n")
	return b.String()
}
