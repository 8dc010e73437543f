package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

func init() {
	registry.Register("ws", "Remote agent behind a websocket evaluation server", func(opts registry.Options) (registry.Agent, error) {
		if opts.URL == "" {
			return nil, errors.New("agent: websocket agent needs a URL")
		}
		return DialWebsocket(context.Background(), opts.URL, opts.Logger)
	})
}

// WSAgent evaluates positions through a websocket evaluation server.
// Each request is one text frame answered by one text frame.
type WSAgent struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *log.Logger
	broken bool
}

// DialWebsocket connects to an evaluation server at url.
func DialWebsocket(ctx context.Context, url string, logger *log.Logger) (*WSAgent, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("agent: cannot dial %s: %w", url, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &WSAgent{conn: conn, logger: logger.With("url", url)}, nil
}

func (a *WSAgent) Name() string { return "ws" }

func (a *WSAgent) Evaluate(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.broken {
		return nil, ErrAgentUnavailable
	}

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	_ = a.conn.SetWriteDeadline(deadline)
	_ = a.conn.SetReadDeadline(deadline)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("agent: cannot encode request: %w", err)
	}
	if err := a.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		a.broken = true
		return nil, fmt.Errorf("%w: write: %v", ErrAgentUnavailable, err)
	}

	_, msg, err := a.conn.ReadMessage()
	if err != nil {
		a.broken = true
		return nil, fmt.Errorf("%w: read: %v", ErrAgentUnavailable, err)
	}
	resp, err := protocol.DecodeResponse(msg)
	if err != nil {
		a.logger.Warn("discarding agent response", "err", err)
		return nil, nil
	}
	return resp, nil
}

// Close sends a close frame and closes the connection.
func (a *WSAgent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.broken = true
	_ = a.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return a.conn.Close()
}
