// ABOUTME: Bubbletea model for the call TUI
// ABOUTME: Defines the start/stop toggle, volume state and live stream stats
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muhammadawaisg/basic-ai-call/internal/version"
)

// Model represents the TUI state
type Model struct {
	// Session
	active    bool
	starting  bool
	url       string
	streamSid string
	lastError string

	// Playback
	volume int
	muted  bool

	// Stats
	sent     int64
	received int64
	played   int64
	dropped  int64
	queued   int
	skipped  int64
	ignored  int64

	// Debug
	showDebug bool

	// Dimensions
	width  int
	height int

	control *Control
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderControls())
	b.WriteString(m.renderStats())

	if m.showDebug {
		b.WriteString(m.renderDebug())
	}

	b.WriteString(m.renderHelp())
	return b.String()
}

// renderHeader renders session status
func (m Model) renderHeader() string {
	status := "Idle"
	switch {
	case m.starting:
		status = "Connecting..."
	case m.active:
		status = "Streaming"
	}

	s := fmt.Sprintf(`┌─ %-50s ┐
│ Status: %-44s │
│ Server: %-44s │
`, truncate(version.Product+" "+version.Version, 50), status, truncate(m.url, 44))

	if m.streamSid != "" {
		s += fmt.Sprintf("│ Stream: %-44s │\n", truncate(m.streamSid, 44))
	}
	if m.lastError != "" {
		s += fmt.Sprintf("│ Error:  %-44s │\n", truncate(m.lastError, 44))
	}
	s += "├──────────────────────────────────────────────────────┤\n"
	return s
}

// renderControls renders the toggle and volume
func (m Model) renderControls() string {
	button := "[ Start ]"
	if m.active || m.starting {
		button = "[ Stop  ]"
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " muted"
	}

	volumeBar := renderBar(m.volume, 100, 10)
	volume := fmt.Sprintf("[%s] %d%%%s", volumeBar, m.volume, muteIcon)

	return fmt.Sprintf("│ %-52s │\n│ Volume: %-44s │\n", button, volume)
}

// renderStats renders stream statistics
func (m Model) renderStats() string {
	line1 := fmt.Sprintf("TX: %d  RX: %d", m.sent, m.received)
	line2 := fmt.Sprintf("Played: %d  Queued: %d  Dropped: %d", m.played, m.queued, m.dropped)
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  %-44s │
│         %-44s │
`, line1, line2)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ s:Start/Stop  ↑/↓:Volume  m:Mute  d:Debug  q:Quit    │
└──────────────────────────────────────────────────────┘
`
}

// renderDebug renders debug information
func (m Model) renderDebug() string {
	return fmt.Sprintf(`│ DEBUG:                                               │
│   Empty capture cycles: %-28d │
│   Ignored messages:     %-28d │
`, m.skipped, m.ignored)
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.control.quit()
		return m, tea.Quit
	case "s", "enter", " ":
		if m.active || m.starting {
			m.starting = false
			m.control.toggle(false)
		} else {
			m.starting = true
			m.lastError = ""
			m.control.toggle(true)
		}
	case "up":
		if m.volume < 100 {
			m.volume += 5
			if m.volume > 100 {
				m.volume = 100
			}
			m.control.volumeChanged(m.volume, m.muted)
		}
	case "down":
		if m.volume > 0 {
			m.volume -= 5
			if m.volume < 0 {
				m.volume = 0
			}
			m.control.volumeChanged(m.volume, m.muted)
		}
	case "m":
		m.muted = !m.muted
		m.control.volumeChanged(m.volume, m.muted)
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Active != nil {
		m.active = *msg.Active
		m.starting = false
	}
	if msg.URL != "" {
		m.url = msg.URL
	}
	if msg.StreamSid != "" {
		m.streamSid = msg.StreamSid
	}
	if msg.Error != "" {
		m.lastError = msg.Error
		m.starting = false
	}
	if msg.Stats != nil {
		m.sent = msg.Stats.Sent
		m.received = msg.Stats.Received
		m.played = msg.Stats.Played
		m.dropped = msg.Stats.Dropped
		m.queued = msg.Stats.Queued
		m.skipped = msg.Stats.Skipped
		m.ignored = msg.Stats.Ignored
	}
}

// StatusMsg updates TUI state. Nil and empty fields leave state unchanged.
type StatusMsg struct {
	Active    *bool
	URL       string
	StreamSid string
	Error     string
	Stats     *StatsSnapshot
}

// StatsSnapshot carries counters for the stats panel
type StatsSnapshot struct {
	Sent     int64
	Received int64
	Played   int64
	Dropped  int64
	Queued   int
	Skipped  int64
	Ignored  int64
}

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
