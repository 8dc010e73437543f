package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [player]",
	Short: "Show stored results",
	Long: `Display stored results, best first.

Without a player on a terminal, opens the interactive scoreboard with one
tab per player. With a player, or with --plain, prints that player's top
results instead. Agents are stored under their name.

Examples:
  tetris scores
  tetris scores alice
  tetris scores random --limit 20
  tetris scores --plain
  tetris scores alice --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a table instead of the interactive scoreboard")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the player's stored results")
}

func runScores(_ *cobra.Command, args []string) {
	player := args0(args, "")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatal("opening scores database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if player == "" {
			store.Close()
			fatal("--clear needs a player")
		}
		if err := store.ClearResults(player); err != nil {
			store.Close()
			fatal("%v", err)
		}
		fmt.Printf("Cleared results for %s\n", player)
		return
	}

	fd := int(os.Stdout.Fd())
	if player == "" && !flagPlain && term.IsTerminal(fd) {
		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			store.Close()
			fatal("%v", err)
		}
		return
	}

	printResults(store, player)
}

func printResults(store *storage.Store, player string) {
	results, err := store.TopResults(player, flagLimit)
	if err != nil {
		store.Close()
		fatal("retrieving results: %v", err)
	}

	if player == "" {
		fmt.Println("Top Results - all players")
	} else {
		fmt.Printf("Top Results - %s\n", player)
	}
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' to set the first one!")
		return
	}

	fmt.Printf("  %-4s  %-12s  %6s  %6s  %7s  %s\n", "Rank", "Player", "Lines", "Pieces", "T-Spins", "Date")
	fmt.Printf("  %-4s  %-12s  %6s  %6s  %7s  %s\n", "----", "------", "-----", "------", "-------", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-12s  %6d  %6d  %7d  %s\n",
			i+1, r.Player, r.Lines, r.Pieces, r.TSpins, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(player); err == nil {
		fmt.Printf("Best: %d lines\n", best)
	}
}
