package tetris

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Seed     int64
	State    State
	Score    int
	Piece    Piece
	Hold     string // "" when nothing is held
	Queue    []PieceType
	CanHold  bool
	Board    string // visible rows, as Board.String
	Height   int
	Occupied int
	Stats    Stats
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	hold := ""
	if t, ok := g.Hold(); ok {
		hold = t.String()
	}
	return Snapshot{
		Seed:     g.seed,
		State:    g.state,
		Score:    g.score,
		Piece:    g.piece,
		Hold:     hold,
		Queue:    g.Queue(),
		CanHold:  g.canHold,
		Board:    g.board.String(),
		Height:   g.board.Height(),
		Occupied: g.board.OccupiedCount(),
		Stats:    g.stats,
	}
}
