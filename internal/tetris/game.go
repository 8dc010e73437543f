package tetris

// QueueLength is the number of upcoming pieces kept visible.
const QueueLength = 6

// State is the lifecycle stage of a game.
type State int

const (
	StateNotStarted State = iota
	StateActive
	StatePaused
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Result reports what an action did.
type Result struct {
	// Moved is true when the action changed the game.
	Moved bool
	// Locked is true when the action locked the active piece; Lock then
	// holds the outcome.
	Locked bool
	Lock   LockInfo
}

// Stats accumulates per-game counters.
type Stats struct {
	Pieces int
	TSpins int
	// Clears counts locks by number of rows cleared; index 0 is unused.
	Clears [5]int
}

// Game is a single-player session. It is mutated only through Apply,
// GravityShift, SwapHold, Lock and HardDrop, and is not safe for
// concurrent use.
type Game struct {
	board   *Board
	bag     *Bag
	piece   Piece
	hold    *PieceType
	queue   []PieceType
	canHold bool
	score   int
	state   State
	seed    int64
	stats   Stats
	last    LockInfo
}

// NewGame returns a game that has not been started.
func NewGame() *Game {
	return &Game{board: NewBoard()}
}

// Start begins a fresh game seeded with seed, discarding any previous state.
func (g *Game) Start(seed int64) {
	g.StartWithBag(seed, NewBag(seed))
}

// StartWithBag begins a fresh game drawing from bag. seed is recorded
// for reporting only.
func (g *Game) StartWithBag(seed int64, bag *Bag) {
	g.seed = seed
	g.bag = bag
	g.board = NewBoard()
	g.piece = NewPiece(g.bag.Next())
	g.hold = nil
	g.queue = g.queue[:0]
	g.refillQueue()
	g.canHold = true
	g.score = 0
	g.stats = Stats{}
	g.last = LockInfo{}
	g.state = StateActive
}

func (g *Game) refillQueue() {
	for len(g.queue) < QueueLength {
		g.queue = append(g.queue, g.bag.Next())
	}
}

// Apply performs a single action. Actions are ignored unless the game is
// active.
func (g *Game) Apply(a Action) Result {
	if g.state != StateActive {
		return Result{}
	}
	b := g.board
	switch a {
	case ActionShiftLeft:
		return Result{Moved: g.piece.ShiftLeft(b)}
	case ActionShiftRight:
		return Result{Moved: g.piece.ShiftRight(b)}
	case ActionShiftDown:
		return Result{Moved: g.piece.ShiftDown(b)}
	case ActionRotateCW:
		return Result{Moved: g.piece.RotateCW(b)}
	case ActionRotateCCW:
		return Result{Moved: g.piece.RotateCCW(b)}
	case ActionRotate180:
		return Result{Moved: g.piece.Rotate180(b)}
	case ActionHold:
		return Result{Moved: g.SwapHold()}
	case ActionSoftDrop:
		return Result{Moved: g.piece.SoftDrop(b)}
	case ActionHardDrop:
		info := g.HardDrop()
		return Result{Moved: true, Locked: true, Lock: info}
	}
	return Result{}
}

// GravityShift moves the active piece down one row, locking it if it
// cannot move.
func (g *Game) GravityShift() Result {
	if g.state != StateActive {
		return Result{}
	}
	if g.piece.ShiftDown(g.board) {
		return Result{Moved: true}
	}
	info := g.Lock()
	return Result{Moved: true, Locked: true, Lock: info}
}

// SwapHold exchanges the active piece with the held one, or with the
// queue front when nothing is held. It may be used once per piece and only
// while the game is active.
func (g *Game) SwapHold() bool {
	if g.state != StateActive || !g.canHold {
		return false
	}
	current := g.piece.Type
	var next PieceType
	if g.hold != nil {
		next = *g.hold
	} else {
		if len(g.queue) == 0 {
			return false
		}
		next = g.queue[0]
		g.queue = g.queue[1:]
	}
	g.hold = &current
	g.piece = NewPiece(next)
	g.canHold = false
	g.refillQueue()
	return true
}

// HardDrop drops the active piece to rest and locks it. Outside an active
// game it does nothing.
func (g *Game) HardDrop() LockInfo {
	if g.state != StateActive {
		return LockInfo{}
	}
	if len(g.queue) == 0 {
		panic(ErrQueueExhausted)
	}
	g.piece.SoftDrop(g.board)
	return g.Lock()
}

// Lock writes the active piece where it stands and promotes the next
// queued piece. A top-out finishes the game after the write. Outside an
// active game it does nothing.
func (g *Game) Lock() LockInfo {
	if g.state != StateActive {
		return LockInfo{}
	}
	if len(g.queue) == 0 {
		panic(ErrQueueExhausted)
	}
	info := g.board.Lock(g.piece)
	g.score += info.LinesCleared
	g.stats.Pieces++
	if info.TSpin {
		g.stats.TSpins++
	}
	if info.LinesCleared > 0 && info.LinesCleared < len(g.stats.Clears) {
		g.stats.Clears[info.LinesCleared]++
	}
	if info.TopOut {
		g.state = StateFinished
	}
	g.piece = NewPiece(g.queue[0])
	g.queue = g.queue[1:]
	g.canHold = true
	g.refillQueue()
	g.last = info
	return info
}

// AddGarbage inserts garbage rows under the stack. The active piece is
// lifted when the new rows would overlap it, and the game finishes if
// that is impossible.
func (g *Game) AddGarbage(col, height int) {
	if g.state != StateActive && g.state != StatePaused {
		return
	}
	g.board.AddGarbage(col, height)
	for g.board.IntersectsWith(g.piece) {
		if !g.piece.Shift(0, 1, g.board) && !g.liftPiece() {
			g.state = StateFinished
			return
		}
	}
}

// liftPiece moves the piece up ignoring collisions, staying within bounds.
func (g *Game) liftPiece() bool {
	next := g.piece
	next.Y++
	if !LocationBounds(next.Type, next.Rotation).Contains(next.X, next.Y) {
		return false
	}
	g.piece = next
	return true
}

// Pause suspends an active game.
func (g *Game) Pause() {
	if g.state == StateActive {
		g.state = StatePaused
	}
}

// Resume continues a paused game.
func (g *Game) Resume() {
	if g.state == StatePaused {
		g.state = StateActive
	}
}

// TogglePause flips between active and paused.
func (g *Game) TogglePause() {
	switch g.state {
	case StateActive:
		g.state = StatePaused
	case StatePaused:
		g.state = StateActive
	}
}

// Ghost returns where the active piece would land if hard-dropped.
func (g *Game) Ghost() Piece {
	ghost := g.piece.Clone()
	ghost.SoftDrop(g.board)
	return ghost
}

func (g *Game) Board() *Board { return g.board }
func (g *Game) Piece() Piece { return g.piece }
func (g *Game) CanHold() bool { return g.canHold }
func (g *Game) Score() int { return g.score }
func (g *Game) State() State { return g.state }
func (g *Game) Finished() bool { return g.state == StateFinished }
func (g *Game) Seed() int64 { return g.seed }
func (g *Game) Stats() Stats { return g.stats }
func (g *Game) LastLock() LockInfo { return g.last }

// Hold returns the held piece type, if any.
func (g *Game) Hold() (PieceType, bool) {
	if g.hold == nil {
		return 0, false
	}
	return *g.hold, true
}

// Queue returns a copy of the upcoming pieces, next first.
func (g *Game) Queue() []PieceType {
	return append([]PieceType(nil), g.queue...)
}
