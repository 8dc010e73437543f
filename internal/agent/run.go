package agent

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// RunOptions limits and perturbs a headless game.
type RunOptions struct {
	// MaxPieces stops the game after this many locks. Zero plays until
	// top-out.
	MaxPieces int
	// GarbageEvery inserts GarbageHeight garbage rows after every
	// GarbageEvery locks. Zero disables garbage.
	GarbageEvery  int
	GarbageHeight int
}

// Summary is the outcome of a headless game.
type Summary struct {
	Seed        int64
	Lines       int
	Pieces      int
	TSpins      int
	ToppedOut   bool
	NoDecisions int
	Duration    time.Duration
}

// Run plays g to completion with a, one request per piece. Moves after the
// first lock in a response are ignored. When the agent makes no decision or
// its moves never lock the piece, the piece is hard-dropped.
func Run(ctx context.Context, g *tetris.Game, a registry.Agent, opts RunOptions) (Summary, error) {
	start := time.Now()
	garbage := tetris.NewXorshift(g.Seed() + 1)
	height := opts.GarbageHeight
	if height <= 0 {
		height = 1
	}
	sum := Summary{Seed: g.Seed()}

	finish := func() Summary {
		st := g.Stats()
		sum.Lines = g.Score()
		sum.Pieces = st.Pieces
		sum.TSpins = st.TSpins
		sum.ToppedOut = g.Finished()
		sum.Duration = time.Since(start)
		return sum
	}

	for !g.Finished() && (opts.MaxPieces == 0 || g.Stats().Pieces < opts.MaxPieces) {
		if err := ctx.Err(); err != nil {
			return finish(), err
		}

		req := protocol.NewRequest(g)
		resp, err := a.Evaluate(ctx, &req)
		if err != nil {
			return finish(), err
		}

		locked := false
		if resp == nil {
			sum.NoDecisions++
		} else {
			for _, action := range resp.Actions() {
				if g.Apply(action).Locked {
					locked = true
					break
				}
			}
		}
		if !locked && !g.Finished() {
			g.Apply(tetris.ActionHardDrop)
		}

		if opts.GarbageEvery > 0 && g.Stats().Pieces%opts.GarbageEvery == 0 {
			g.AddGarbage(garbage.Intn(tetris.BoardWidth), height)
		}
	}
	return finish(), nil
}
