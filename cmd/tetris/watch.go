package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var (
	watchAgent   agentFlags
	flagSpeed    int
	flagTimeout  int
	flagNoSaving bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [agent]",
	Short: "Watch an agent play",
	Long: `Let a move-evaluation agent play while you watch.

The agent defaults to the one named in the config. External programs are
started with the process agent and speak one JSON line per request on
stdin/stdout; their stderr goes to the log.

Controls:
  P/Esc     - Pause
  R         - Restart with a new seed
  Q/Ctrl+C  - Quit

Examples:
  tetris watch random --speed 10
  tetris watch process --command ./my-bot --arg --depth --arg 2
  tetris watch ws --url ws://localhost:8080
  tetris watch process --command ./my-bot --log-file bot.log`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchAgent.register(watchCmd)
	watchCmd.Flags().IntVar(&flagSpeed, "speed", 0, "Actions per tick rate, 1 (slow) to 10 (every tick)")
	watchCmd.Flags().IntVar(&flagTimeout, "timeout", -1, "Abandon a request after this many steps (0 waits forever)")
	watchCmd.Flags().BoolVar(&flagNoSaving, "no-save", false, "Do not store results")
}

func runWatch(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagSpeed != 0 {
		cfg.Agent.Speed = flagSpeed
	}
	if flagTimeout >= 0 {
		cfg.Agent.TimeoutTicks = flagTimeout
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	name := agentName(args, cfg.Agent)

	logger, closeLog := newLogger("watch", true)
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	runtime := runtimeConfig()
	opts := watchAgent.options(cfg.Agent, runtime.Seed, logger)
	opts.OnExit = func(err error) {
		logger.Error("agent exited", "err", err)
		cancel(fmt.Errorf("agent exited: %w", err))
	}

	a, err := registry.Create(name, opts)
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	if flagNoSaving {
		store = nil
	}

	runErr := tui.RunSpectator(ctx, tui.SpectatorOptions{
		Config:  cfg,
		Runtime: runtime,
		Agent:   a,
		Logger:  logger,
		Store:   store,
	})
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		a.Close()
		fatal("%v", cause)
	}
	if runErr != nil && ctx.Err() == nil {
		a.Close()
		fatal("%v", runErr)
	}
}
