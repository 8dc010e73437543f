package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-tetris/internal/agent"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

var (
	benchAgent    agentFlags
	flagGames     int
	flagPieces    int
	flagParallel  int
	flagSave      bool
	flagGarbage   int
	flagGarbageHt int
)

var benchCmd = &cobra.Command{
	Use:   "bench [agent]",
	Short: "Run headless games with an agent",
	Long: `Play games without a terminal UI and report the results.

Game i uses seed --seed + i, so a fixed --seed makes runs comparable.
Every game gets its own agent instance; --parallel games run at once.

Examples:
  tetris bench random --games 100 --parallel 8 --seed 1
  tetris bench process --command ./my-bot --pieces 500 --save
  tetris bench random --garbage-every 5 --garbage-height 2`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBench,
}

func init() {
	benchAgent.register(benchCmd)
	benchCmd.Flags().IntVar(&flagGames, "games", 10, "Number of games")
	benchCmd.Flags().IntVar(&flagPieces, "pieces", 1000, "Stop a game after this many pieces (0 = until top-out)")
	benchCmd.Flags().IntVar(&flagParallel, "parallel", 1, "Games played concurrently")
	benchCmd.Flags().BoolVar(&flagSave, "save", false, "Store results in the scores database")
	benchCmd.Flags().IntVar(&flagGarbage, "garbage-every", -1, "Insert garbage after every N pieces (default from config)")
	benchCmd.Flags().IntVar(&flagGarbageHt, "garbage-height", -1, "Rows per garbage insertion (default from config)")
}

func runBench(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	name := agentName(args, cfg.Agent)
	if flagGames < 1 {
		fatal("--games must be at least 1")
	}

	logger, closeLog := newLogger("bench", false)
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	runOpts := agent.RunOptions{
		MaxPieces:     flagPieces,
		GarbageEvery:  cfg.Gameplay.GarbageEvery,
		GarbageHeight: cfg.Gameplay.GarbageHeight,
	}
	if flagGarbage >= 0 {
		runOpts.GarbageEvery = flagGarbage
	}
	if flagGarbageHt >= 0 {
		runOpts.GarbageHeight = flagGarbageHt
	}

	base := runtimeConfig().Seed
	summaries := make([]agent.Summary, flagGames)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, flagParallel))
	for i := range summaries {
		seed := base + int64(i)
		g.Go(func() error {
			gameLogger := logger.With("seed", seed)
			opts := benchAgent.options(cfg.Agent, seed, gameLogger)
			opts.OnExit = func(err error) { gameLogger.Error("agent exited", "err", err) }
			sum, err := benchGame(gctx, name, seed, opts, runOpts)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			summaries[i] = sum
			logger.Info("game finished", "seed", seed, "lines", sum.Lines, "pieces", sum.Pieces, "topped_out", sum.ToppedOut)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fatal("%v", err)
	}

	printSummaries(name, summaries, time.Since(start))

	if flagSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fatal("opening scores database: %v", err)
		}
		defer store.Close()
		for _, s := range summaries {
			if _, err := store.SaveResult(storage.Result{
				Player:    name,
				Seed:      s.Seed,
				Lines:     s.Lines,
				Pieces:    s.Pieces,
				TSpins:    s.TSpins,
				ToppedOut: s.ToppedOut,
				Duration:  s.Duration,
			}); err != nil {
				fatal("%v", err)
			}
		}
		fmt.Printf("Saved %d results as %q\n", len(summaries), name)
	}
}

// benchGame plays one game with a fresh agent.
func benchGame(ctx context.Context, name string, seed int64, agentOpts registry.Options, opts agent.RunOptions) (agent.Summary, error) {
	a, err := registry.Create(name, agentOpts)
	if err != nil {
		return agent.Summary{}, err
	}
	defer a.Close()

	game := tetris.NewGame()
	game.Start(seed)
	return agent.Run(ctx, game, a, opts)
}

func printSummaries(name string, summaries []agent.Summary, elapsed time.Duration) {
	fmt.Printf("Agent %s, %d games in %s\n\n", name, len(summaries), elapsed.Round(time.Millisecond))
	fmt.Printf("  %-20s  %6s  %6s  %7s  %-9s  %s\n", "Seed", "Lines", "Pieces", "T-Spins", "Topped", "Time")
	fmt.Printf("  %-20s  %6s  %6s  %7s  %-9s  %s\n", "----", "-----", "------", "-------", "------", "----")

	var lines, pieces, toppedOut, noDecisions int
	best := 0
	for _, s := range summaries {
		fmt.Printf("  %-20d  %6d  %6d  %7d  %-9t  %s\n",
			s.Seed, s.Lines, s.Pieces, s.TSpins, s.ToppedOut, s.Duration.Round(time.Millisecond))
		lines += s.Lines
		pieces += s.Pieces
		noDecisions += s.NoDecisions
		best = max(best, s.Lines)
		if s.ToppedOut {
			toppedOut++
		}
	}

	n := float64(len(summaries))
	fmt.Println()
	fmt.Printf("Average lines: %.1f  Best: %d  Top-outs: %d/%d\n", float64(lines)/n, best, toppedOut, len(summaries))
	if pieces > 0 {
		fmt.Printf("Lines per piece: %.3f  No decisions: %d\n", float64(lines)/float64(pieces), noDecisions)
	}
}
