package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

type postBox struct {
	sent   []protocol.WorkerRequest
	refuse bool
}

func (p *postBox) post(req protocol.WorkerRequest) bool {
	if p.refuse {
		return false
	}
	p.sent = append(p.sent, req)
	return true
}

func newTestDriver(t *testing.T) (*Driver, *postBox) {
	t.Helper()
	g := tetris.NewGame()
	g.Start(42)
	box := &postBox{}
	return NewDriver(g, "random", box.post), box
}

func TestDriverSingleOutstanding(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	d.Step()
	d.Step()
	require.Len(t, box.sent, 1)
	assert.Equal(t, protocol.TypeEvaluate, box.sent[0].Type)
	assert.Equal(t, "random", box.sent[0].AI)

	id, ok := d.Pending()
	assert.True(t, ok)
	assert.Equal(t, box.sent[0].ID, id)
}

func TestDriverDiscardsStaleResponse(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	first := box.sent[0].ID

	// The pending id is dropped by a ready message; a new request follows.
	assert.True(t, d.Handle(protocol.Ready()))
	d.Step()
	require.Len(t, box.sent, 2)
	second := box.sent[1].ID
	assert.Greater(t, second, first)

	before := d.Game().Snapshot()
	stale := protocol.WorkerResponse{
		Type:    protocol.TypeEvaluate,
		ID:      first,
		Success: true,
		Actions: []tetris.Action{tetris.ActionHardDrop},
	}
	assert.False(t, d.Handle(stale))
	assert.Zero(t, d.Queued())
	assert.Equal(t, before, d.Game().Snapshot())

	id, ok := d.Pending()
	assert.True(t, ok)
	assert.Equal(t, second, id)
}

func TestDriverAppliesActions(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	accepted := d.Handle(protocol.WorkerResponse{
		Type:    protocol.TypeEvaluate,
		ID:      box.sent[0].ID,
		Success: true,
		Actions: []tetris.Action{tetris.ActionShiftLeft, tetris.ActionHardDrop},
		Message: "Time: 1 ms",
	})
	require.True(t, accepted)
	assert.Equal(t, "Time: 1 ms", d.Message())
	assert.Equal(t, 2, d.Queued())

	r := d.Step()
	assert.True(t, r.Moved)
	r = d.Step()
	assert.True(t, r.Locked)
	assert.Equal(t, 1, d.Game().Stats().Pieces)

	// Queue drained: the next step asks again.
	d.Step()
	assert.Len(t, box.sent, 2)
}

func TestDriverFailureHardDrops(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	require.True(t, d.Handle(protocol.WorkerResponse{Type: protocol.TypeEvaluate, ID: box.sent[0].ID}))
	r := d.Step()
	assert.True(t, r.Locked)
}

func TestDriverLocksEveryResponse(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	require.True(t, d.Handle(protocol.WorkerResponse{
		Type:    protocol.TypeEvaluate,
		ID:      box.sent[0].ID,
		Success: true,
		Actions: []tetris.Action{tetris.ActionRotateCW},
	}))
	assert.Equal(t, 2, d.Queued(), "a hard drop follows moves that never lock")

	d.Step()
	assert.True(t, d.Step().Locked)
	d.Step()
	require.Len(t, box.sent, 2)
	require.True(t, d.Handle(protocol.WorkerResponse{
		Type:    protocol.TypeEvaluate,
		ID:      box.sent[1].ID,
		Success: true,
		Actions: []tetris.Action{tetris.ActionHardDrop, tetris.ActionShiftLeft, tetris.ActionHardDrop},
	}))
	assert.Equal(t, 1, d.Queued(), "moves after the first lock are dropped")
}

func TestDriverReset(t *testing.T) {
	d, box := newTestDriver(t)
	d.Step()
	d.Reset(7)
	_, ok := d.Pending()
	assert.False(t, ok)
	assert.False(t, d.Handle(protocol.WorkerResponse{Type: protocol.TypeEvaluate, ID: box.sent[0].ID, Success: true}))
	assert.Equal(t, int64(7), d.Game().Seed())

	d.Step()
	require.Len(t, box.sent, 2)
	assert.Greater(t, box.sent[1].ID, box.sent[0].ID)
}

func TestDriverTimeout(t *testing.T) {
	d, box := newTestDriver(t)
	d.SetTimeout(3)
	d.Step()
	d.Step()
	d.Step()
	d.Step()
	_, ok := d.Pending()
	assert.False(t, ok)
	assert.Equal(t, "Request timed out", d.Message())

	// A late answer to the abandoned id is dropped.
	assert.False(t, d.Handle(protocol.WorkerResponse{Type: protocol.TypeEvaluate, ID: box.sent[0].ID, Success: true}))
}

func TestDriverRetriesRefusedPost(t *testing.T) {
	d, box := newTestDriver(t)
	box.refuse = true
	d.Step()
	_, ok := d.Pending()
	assert.False(t, ok)

	box.refuse = false
	d.Step()
	require.Len(t, box.sent, 1)
	assert.Equal(t, int64(1), box.sent[0].ID)
}

func TestDriverIdleWhenFinished(t *testing.T) {
	g := tetris.NewGame()
	box := &postBox{}
	d := NewDriver(g, "random", box.post)
	d.Step()
	assert.Empty(t, box.sent)
}
