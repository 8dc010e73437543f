package ws

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/agent"
	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func startServer(t *testing.T, newAgent NewAgentFunc) (*Server, string) {
	t.Helper()
	s := NewServer(newAgent, quietLogger())
	hs := httptest.NewServer(s)
	t.Cleanup(hs.Close)
	return s, "ws" + strings.TrimPrefix(hs.URL, "http")
}

func randomAgents() (registry.Agent, error) {
	return agent.NewRandomAgent(5), nil
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func startedGame(seed int64) *tetris.Game {
	g := tetris.NewGame()
	g.Start(seed)
	return g
}

func TestServerAnswersWSAgent(t *testing.T) {
	_, url := startServer(t, randomAgents)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := agent.DialWebsocket(ctx, url, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	req := protocol.NewRequest(startedGame(1))
	resp, err := a.Evaluate(ctx, &req)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Moves)
	assert.Equal(t, protocol.MoveHardDrop, resp.Moves[len(resp.Moves)-1])
}

func TestServerRepliesNullToInvalidRequests(t *testing.T) {
	_, url := startServer(t, randomAgents)
	conn := dial(t, url)

	for _, bad := range []string{`{"matrix":`, `null`, `{"queue":[],"current":0,"hold":null}`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(bad)))
		_, reply, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, "null", string(reply), "request %s", bad)
	}

	// The connection keeps serving after invalid input.
	req := protocol.NewRequest(startedGame(2))
	require.NoError(t, conn.WriteJSON(req))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	resp, err := protocol.DecodeResponse(reply)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Moves)
}

func TestServerAgentPerConnection(t *testing.T) {
	created := make(chan struct{}, 4)
	s, url := startServer(t, func() (registry.Agent, error) {
		created <- struct{}{}
		return agent.NewRandomAgent(1), nil
	})

	first := dial(t, url)
	second := dial(t, url)
	req := protocol.NewRequest(startedGame(3))
	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.WriteJSON(req))
		_, _, err := conn.ReadMessage()
		require.NoError(t, err)
	}

	assert.Len(t, created, 2)
	assert.Equal(t, int64(2), s.Connections())
}

func TestServerClosesWhenAgentUnavailable(t *testing.T) {
	_, url := startServer(t, func() (registry.Agent, error) {
		return nil, errors.New("no such agent")
	})
	conn := dial(t, url)

	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseInternalServerErr, closeErr.Code)
}

func TestRunOverWebsocket(t *testing.T) {
	_, url := startServer(t, randomAgents)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := agent.DialWebsocket(ctx, url, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	sum, err := agent.Run(ctx, startedGame(4), a, agent.RunOptions{MaxPieces: 20})
	require.NoError(t, err)
	assert.Zero(t, sum.NoDecisions)
	assert.True(t, sum.Pieces == 20 || sum.ToppedOut)
}

func TestRegistryServer(t *testing.T) {
	s := NewRegistryServer("random", registry.Options{Seed: 1}, quietLogger())
	hs := httptest.NewServer(s)
	defer hs.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(hs.URL, "http"))
	require.NoError(t, conn.WriteJSON(protocol.NewRequest(startedGame(6))))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.NotEqual(t, "null", string(reply))
}
