// tetris plays tetris in the terminal, either by hand or by watching a
// move-evaluation agent, and serves games and agents over the network.
//
// Usage:
//
//	tetris play              - Play in the terminal
//	tetris watch [agent]     - Watch an agent play
//	tetris bench [agent]     - Run headless games and report results
//	tetris agent [agent]     - Serve an agent over stdin/stdout
//	tetris agents            - List available agents
//	tetris serve             - Start SSH server for remote play
//	tetris serve-agent       - Serve an agent over websockets
//	tetris scores [player]   - Show stored results
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible games
//	--db <path>          - Set database path (default: ~/.tetris/scores.db)
//	--config <path>      - Use a custom config YAML
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"

	// Import agents to register them
	_ "github.com/vovakirdan/tui-tetris/internal/agent"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogFile    string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetris",
	Short: "Tetris in your terminal, for humans and agents",
	Long: `Tetris with a 7-bag randomizer, SRS rotation and a JSON protocol
for external move-evaluation agents.

Available commands:
  play         - Play in the terminal
  watch        - Watch an agent play
  bench        - Run headless games with an agent
  agent        - Serve an agent over stdin/stdout
  agents       - List available agents
  serve        - Start SSH server for remote play
  serve-agent  - Serve an agent over websockets
  scores       - View stored results

Examples:
  tetris play --difficulty hard
  tetris watch random --speed 10
  tetris watch process --command ./my-bot
  tetris bench random --games 20 --parallel 4
  tetris serve --ssh :2222
  tetris scores alice`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tetris/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serveAgentCmd)
	rootCmd.AddCommand(scoresCmd)
}

// fatal prints the error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadConfig loads the config file and applies the difficulty preset.
func loadConfig() config.TetrisConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			fatal("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// newLogger returns a logger writing to --log-file, or to stderr when
// tuiActive is false. While a TUI owns the terminal and no file is given,
// logs are discarded.
func newLogger(prefix string, tuiActive bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal("cannot open log file: %v", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case tuiActive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn
}

// runtimeConfig returns the tick rate and seed from the global flags.
func runtimeConfig() core.RuntimeConfig {
	return core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}.Resolved()
}

// openStore opens the scores database, or returns nil with a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// agentFlags are shared by the commands that create an agent.
type agentFlags struct {
	command string
	args    []string
	url     string
}

func (f *agentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.command, "command", "", "Program for the process agent")
	cmd.Flags().StringArrayVar(&f.args, "arg", nil, "Argument for the process agent (repeatable)")
	cmd.Flags().StringVar(&f.url, "url", "", "Server URL for the ws agent")
}

// options merges the flags over the config's agent section.
func (f *agentFlags) options(cfg config.AgentConfig, seed int64, logger *log.Logger) registry.Options {
	opts := registry.Options{
		Seed:    seed,
		Command: cfg.Command,
		Args:    cfg.Args,
		URL:     cfg.URL,
		Logger:  logger,
	}
	if f.command != "" {
		opts.Command = f.command
		opts.Args = f.args
	}
	if f.url != "" {
		opts.URL = f.url
	}
	return opts
}

// agentName picks the agent from the first argument or the config.
func agentName(args []string, cfg config.AgentConfig) string {
	name := cfg.Name
	if len(args) > 0 {
		name = args[0]
	}
	if !registry.Exists(name) {
		fmt.Fprintf(os.Stderr, "Error: unknown agent %q\n", name)
		fmt.Fprintln(os.Stderr, "Run 'tetris agents' to see available agents.")
		os.Exit(1)
	}
	return name
}
