// Package agent implements move-evaluation agents and the drivers that
// play games with them.
package agent

import (
	"context"
	"sync"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

func init() {
	registry.Register("random", "Random placements, for testing transports", func(opts registry.Options) (registry.Agent, error) {
		return NewRandomAgent(opts.Seed), nil
	})
}

// RandomAgent plays random placements: an optional hold, a random
// rotation, up to three shifts in one direction and a hard drop.
type RandomAgent struct {
	mu  sync.Mutex
	rng *tetris.Xorshift
}

// NewRandomAgent returns a random agent whose choices are fixed by seed.
func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{rng: tetris.NewXorshift(seed)}
}

func (a *RandomAgent) Name() string { return "random" }

func (a *RandomAgent) Evaluate(ctx context.Context, _ *protocol.Request) (*protocol.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	var moves []protocol.Move
	if a.rng.Intn(2) == 0 {
		moves = append(moves, protocol.MoveHold)
	}
	switch a.rng.Intn(4) {
	case 1:
		moves = append(moves, protocol.MoveRotateLeft)
	case 2:
		moves = append(moves, protocol.MoveRotate180)
	case 3:
		moves = append(moves, protocol.MoveRotateRight)
	}
	shift := protocol.MoveShiftLeft
	if a.rng.Intn(2) == 0 {
		shift = protocol.MoveShiftRight
	}
	for i := a.rng.Intn(4); i > 0; i-- {
		moves = append(moves, shift)
	}
	moves = append(moves, protocol.MoveHardDrop)

	score := 0.0
	return &protocol.Response{Moves: moves, Score: &score}, nil
}

func (a *RandomAgent) Close() error { return nil }
