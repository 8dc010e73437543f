package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func TestRandomAgentDeterministic(t *testing.T) {
	a1 := NewRandomAgent(5)
	a2 := NewRandomAgent(5)
	req := &protocol.Request{}
	for i := 0; i < 20; i++ {
		r1, err := a1.Evaluate(context.Background(), req)
		require.NoError(t, err)
		r2, err := a2.Evaluate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, r1.Moves, r2.Moves)
		require.NotEmpty(t, r1.Moves)
		assert.Equal(t, protocol.MoveHardDrop, r1.Moves[len(r1.Moves)-1])
		assert.LessOrEqual(t, len(r1.Moves), 6)
	}
}

func TestRandomAgentRegistered(t *testing.T) {
	a, err := registry.Create("random", registry.Options{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, "random", a.Name())
	assert.NoError(t, a.Close())
}

func TestRunStopsAtPieceLimit(t *testing.T) {
	g := tetris.NewGame()
	g.Start(11)
	sum, err := Run(context.Background(), g, NewRandomAgent(11), RunOptions{MaxPieces: 30})
	require.NoError(t, err)
	if !sum.ToppedOut {
		assert.Equal(t, 30, sum.Pieces)
	}
	assert.Equal(t, int64(11), sum.Seed)
	assert.Equal(t, g.Score(), sum.Lines)
}

func TestRunWithGarbageTopsOut(t *testing.T) {
	g := tetris.NewGame()
	g.Start(3)
	sum, err := Run(context.Background(), g, NewRandomAgent(3), RunOptions{
		MaxPieces:     2000,
		GarbageEvery:  1,
		GarbageHeight: 2,
	})
	require.NoError(t, err)
	assert.True(t, sum.ToppedOut)
	assert.Less(t, sum.Pieces, 2000)
}

type silentAgent struct{}

func (silentAgent) Name() string { return "silent" }
func (silentAgent) Evaluate(context.Context, *protocol.Request) (*protocol.Response, error) {
	return nil, nil
}
func (silentAgent) Close() error { return nil }

func TestRunHardDropsWithoutDecision(t *testing.T) {
	g := tetris.NewGame()
	g.Start(8)
	sum, err := Run(context.Background(), g, silentAgent{}, RunOptions{MaxPieces: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Pieces)
	assert.Equal(t, 5, sum.NoDecisions)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := tetris.NewGame()
	g.Start(1)
	_, err := Run(ctx, g, NewRandomAgent(1), RunOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
