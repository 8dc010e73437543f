package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// KeyMap defines the key bindings of the player and spectator screens.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	SoftDrop  key.Binding
	HardDrop  key.Binding
	RotateCW  key.Binding
	RotateCCW key.Binding
	Rotate180 key.Binding
	Hold      key.Binding
	Pause     key.Binding
	Restart   key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.RotateCW, k.RotateCCW, k.HardDrop, k.Hold, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.SoftDrop, k.HardDrop},
		{k.RotateCW, k.RotateCCW, k.Rotate180, k.Hold},
		{k.Pause, k.Restart, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		SoftDrop: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		HardDrop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "drop"),
		),
		RotateCW: key.NewBinding(
			key.WithKeys("x", "up", "k"),
			key.WithHelp("x/↑", "rotate cw"),
		),
		RotateCCW: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "rotate ccw"),
		),
		Rotate180: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "rotate 180"),
		),
		Hold: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hold"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SpectatorKeyMap returns the bindings shown while an agent plays: only
// pause, restart and quit do anything there.
func SpectatorKeyMap() KeyMap {
	k := DefaultKeyMap()
	for _, b := range []*key.Binding{&k.Left, &k.Right, &k.SoftDrop, &k.HardDrop,
		&k.RotateCW, &k.RotateCCW, &k.Rotate180, &k.Hold} {
		b.SetEnabled(false)
	}
	return k
}

// Action maps a key to the game action it triggers. Keys without a game
// action, such as pause and quit, report false.
func (k KeyMap) Action(msg tea.KeyMsg) (tetris.Action, bool) {
	switch {
	case key.Matches(msg, k.Left):
		return tetris.ActionShiftLeft, true
	case key.Matches(msg, k.Right):
		return tetris.ActionShiftRight, true
	case key.Matches(msg, k.SoftDrop):
		return tetris.ActionShiftDown, true
	case key.Matches(msg, k.HardDrop):
		return tetris.ActionHardDrop, true
	case key.Matches(msg, k.RotateCW):
		return tetris.ActionRotateCW, true
	case key.Matches(msg, k.RotateCCW):
		return tetris.ActionRotateCCW, true
	case key.Matches(msg, k.Rotate180):
		return tetris.ActionRotate180, true
	case key.Matches(msg, k.Hold):
		return tetris.ActionHold, true
	}
	return 0, false
}
