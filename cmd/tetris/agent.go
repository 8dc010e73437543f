package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/agent"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

var serveLinesAgent agentFlags

var agentCmd = &cobra.Command{
	Use:   "agent [agent]",
	Short: "Serve an agent over stdin/stdout",
	Long: `Answer evaluation requests on stdin, one JSON line each, with one
JSON line on stdout. Invalid requests are answered with null. Logs go to
stderr.

This is the program side of the process agent, so any registered agent
can stand in for an external one:

  tetris watch process --command tetris --arg agent --arg random

Examples:
  tetris agent random --seed 7
  echo '{"matrix":[...],"queue":[],"current":2,"hold":null}' | tetris agent`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAgent,
}

func init() {
	serveLinesAgent.register(agentCmd)
}

func runAgent(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	name := args0(args, "random")

	logger, closeLog := newLogger("agent", false)
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	a, err := registry.Create(name, serveLinesAgent.options(cfg.Agent, runtimeConfig().Seed, logger))
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	if err := agent.ServeLines(ctx, a, os.Stdin, os.Stdout, logger); err != nil && ctx.Err() == nil {
		a.Close()
		fatal("%v", err)
	}
}

// args0 returns the first argument, or def when there is none.
func args0(args []string, def string) string {
	if len(args) > 0 {
		return args[0]
	}
	return def
}
