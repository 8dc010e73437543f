// Package tui runs tetris games in the terminal with Bubble Tea. It provides
// the human player, the agent spectator, the results table and the SSH
// server that serves the human player to remote sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// TickMsg advances a game by one frame.
type TickMsg time.Time

func tickCmd(rc core.RuntimeConfig) tea.Cmd {
	return tea.Tick(rc.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
