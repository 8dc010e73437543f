package agent

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func receive(t *testing.T, w *Worker) protocol.WorkerResponse {
	t.Helper()
	select {
	case resp, ok := <-w.Responses():
		require.True(t, ok, "worker stopped: %v", w.Err())
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker")
	}
	return protocol.WorkerResponse{}
}

func startWorker(t *testing.T, agents map[string]registry.Agent) *Worker {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w := NewWorker(agents, quietLogger())
	w.Start(ctx)
	require.Equal(t, protocol.TypeReady, receive(t, w).Type)
	return w
}

func TestWorkerEvaluates(t *testing.T) {
	w := startWorker(t, map[string]registry.Agent{"random": NewRandomAgent(1)})

	g := tetris.NewGame()
	g.Start(1)
	require.True(t, w.Post(protocol.NewEvaluate(9, "random", g)))

	resp := receive(t, w)
	assert.Equal(t, protocol.TypeEvaluate, resp.Type)
	assert.Equal(t, int64(9), resp.ID)
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Actions)
	assert.Equal(t, tetris.ActionHardDrop, resp.Actions[len(resp.Actions)-1])
	assert.Contains(t, resp.Message, "Time:")
}

func TestWorkerUnknownAgent(t *testing.T) {
	w := startWorker(t, map[string]registry.Agent{})

	g := tetris.NewGame()
	g.Start(1)
	require.True(t, w.Post(protocol.NewEvaluate(1, "nope", g)))

	resp := receive(t, w)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "unknown agent")
}

type brokenAgent struct{}

func (brokenAgent) Name() string { return "broken" }
func (brokenAgent) Evaluate(context.Context, *protocol.Request) (*protocol.Response, error) {
	return nil, ErrAgentUnavailable
}
func (brokenAgent) Close() error { return nil }

func TestWorkerStopsOnAgentFailure(t *testing.T) {
	w := startWorker(t, map[string]registry.Agent{"broken": brokenAgent{}})

	g := tetris.NewGame()
	g.Start(1)
	require.True(t, w.Post(protocol.NewEvaluate(1, "broken", g)))

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, errors.Is(w.Err(), ErrAgentUnavailable))
	assert.False(t, w.Post(protocol.NewEvaluate(2, "broken", g)))
}

func TestDriverWithWorker(t *testing.T) {
	w := startWorker(t, map[string]registry.Agent{"random": NewRandomAgent(4)})

	g := tetris.NewGame()
	g.Start(4)
	d := NewDriver(g, "random", w.Post)

	deadline := time.After(10 * time.Second)
	for g.Stats().Pieces < 10 && !g.Finished() {
		d.Step()
		if _, pending := d.Pending(); pending {
			select {
			case resp := <-w.Responses():
				d.Handle(resp)
			case <-deadline:
				t.Fatal("timed out driving game")
			}
		}
	}
	assert.True(t, g.Finished() || g.Stats().Pieces >= 10)
}
