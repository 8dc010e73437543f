package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/ws"
)

var (
	serveAgentFlags agentFlags
	flagWSAddr      string
)

var serveAgentCmd = &cobra.Command{
	Use:   "serve-agent [agent]",
	Short: "Serve an agent over websockets",
	Long: `Start a websocket server answering evaluation requests with a
registered agent. Every connection gets its own agent instance; each text
frame holds one request and gets one frame back.

Pair it with the ws agent on another machine:

  tetris serve-agent random --addr :8080
  tetris watch ws --url ws://host:8080

Examples:
  tetris serve-agent random
  tetris serve-agent process --command ./my-bot --addr :9000`,
	Args: cobra.MaximumNArgs(1),
	Run:  runServeAgent,
}

func init() {
	serveAgentFlags.register(serveAgentCmd)
	serveAgentCmd.Flags().StringVar(&flagWSAddr, "addr", "", "Listen address (default from config)")
}

func runServeAgent(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	name := agentName(args, cfg.Agent)
	if name == "ws" {
		fatal("serving the ws agent would only relay to another server")
	}
	addr := cfg.Server.WSAddress
	if flagWSAddr != "" {
		addr = flagWSAddr
	}

	logger, closeLog := newLogger("tetris-ws", false)
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	opts := serveAgentFlags.options(cfg.Agent, runtimeConfig().Seed, logger)
	opts.OnExit = func(err error) { logger.Warn("agent exited", "err", err) }
	server := ws.NewRegistryServer(name, opts, logger)

	fmt.Printf("Serving agent %s on %s\n", name, addr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, addr); err != nil {
		fatal("%v", err)
	}
}
