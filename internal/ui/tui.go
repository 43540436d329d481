// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the channels it drives
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// VolumeChangeMsg reports a volume or mute change from the keyboard
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// Control holds channels for communication from the TUI to the app
type Control struct {
	// Toggle receives true to start a session and false to stop it
	Toggle  chan bool
	Changes chan VolumeChangeMsg
	Quit    chan struct{}
}

// NewControl creates a new control handler
func NewControl() *Control {
	return &Control{
		Toggle:  make(chan bool, 1),
		Changes: make(chan VolumeChangeMsg, 10),
		Quit:    make(chan struct{}),
	}
}

func (c *Control) toggle(start bool) {
	if c == nil {
		return
	}
	select {
	case c.Toggle <- start:
	default:
	}
}

func (c *Control) volumeChanged(volume int, muted bool) {
	if c == nil {
		return
	}
	select {
	case c.Changes <- VolumeChangeMsg{Volume: volume, Muted: muted}:
	default:
	}
}

func (c *Control) quit() {
	if c == nil {
		return
	}
	select {
	case <-c.Quit:
	default:
		close(c.Quit)
	}
}

// NewModel creates a new TUI model
func NewModel(control *Control, url string) Model {
	return Model{
		volume:  100,
		url:     url,
		control: control,
	}
}

// Run creates the TUI program; the caller runs it
func Run(control *Control, url string) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(control, url), tea.WithAltScreen())
	return p, nil
}
