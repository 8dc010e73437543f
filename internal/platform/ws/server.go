// Package ws serves move-evaluation agents over websockets. Every
// connection gets its own agent; each text frame carries one request and is
// answered with one frame holding the response, or null when the request
// is invalid or the agent makes no decision.
package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tetris/internal/agent"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

const (
	maxMessageSize = 1 << 20
	writeWait      = 10 * time.Second
)

// NewAgentFunc creates the agent serving one connection.
type NewAgentFunc func() (registry.Agent, error)

// Server accepts websocket connections and answers evaluation requests.
type Server struct {
	newAgent NewAgentFunc
	logger   *log.Logger
	upgrader websocket.Upgrader
	conns    atomic.Int64
}

// NewServer returns a server creating one agent per connection with
// newAgent.
func NewServer(newAgent NewAgentFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tetris-ws",
		})
	}
	return &Server{
		newAgent: newAgent,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// NewRegistryServer serves the registered agent name, created with opts
// for every connection.
func NewRegistryServer(name string, opts registry.Options, logger *log.Logger) *Server {
	return NewServer(func() (registry.Agent, error) {
		return registry.Create(name, opts)
	}, logger)
}

// Connections returns the number of open connections.
func (s *Server) Connections() int64 { return s.conns.Load() }

// ServeHTTP upgrades the request and serves the connection until the peer
// closes it or the agent fails.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	s.conns.Add(1)
	defer s.conns.Add(-1)

	logger := s.logger.With("remote", r.RemoteAddr)
	a, err := s.newAgent()
	if err != nil {
		logger.Error("cannot create agent", "err", err)
		s.close(conn, websocket.CloseInternalServerErr, "agent unavailable")
		return
	}
	defer a.Close()

	logger.Info("connection opened", "agent", a.Name())
	if err := s.serve(r.Context(), conn, a, logger); err != nil {
		logger.Error("connection failed", "err", err)
		s.close(conn, websocket.CloseInternalServerErr, "agent failed")
		return
	}
	logger.Info("connection closed")
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn, a registry.Agent, logger *log.Logger) error {
	conn.SetReadLimit(maxMessageSize)
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("ws: read: %w", err)
		}
		if kind != websocket.TextMessage {
			logger.Warn("ignoring non-text frame", "type", kind)
			continue
		}

		reply, err := agent.Answer(ctx, a, data, logger)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			return fmt.Errorf("ws: write: %w", err)
		}
	}
}

func (s *Server) close(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(writeWait))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", s)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting websocket server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ws: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
