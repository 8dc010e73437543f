package main

import (
	"os/user"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Left/Right, h/l  - Shift
  Down, j          - Soft drop one row
  Space            - Hard drop
  X, Up / Z / A    - Rotate clockwise / counter-clockwise / 180
  C                - Hold
  P/Esc            - Pause
  R                - Restart
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slow start, gravity speeds up with cleared lines
  normal - Start at 30% difficulty, progresses to max
  hard   - Fast start at 70% difficulty
  fixed  - No progression, gravity stays at the config's value

Examples:
  tetris play
  tetris play --difficulty hard
  tetris play --seed 42 --player alice
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name results are stored under (default: current user)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	player := flagPlayer
	if player == "" {
		if u, err := user.Current(); err == nil {
			player = u.Username
		}
	}

	store := openStore()
	runErr := tui.Run(tui.Options{
		Config:  cfg,
		Runtime: runtimeConfig(),
		Store:   store,
		Player:  player,
	})

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fatal("running game: %v", runErr)
	}
}
