package agent

import (
	"github.com/vovakirdan/tui-tetris/internal/protocol"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Driver plays a game with decisions from a worker. Requests carry
// increasing ids and at most one is outstanding; responses to any other id
// are dropped. A Driver is owned by a single loop and is not safe for
// concurrent use.
type Driver struct {
	game *tetris.Game
	ai   string
	post func(protocol.WorkerRequest) bool

	nextID    int64
	pendingID int64
	pending   bool
	waited    int
	timeout   int

	actions []tetris.Action
	message string
}

// NewDriver returns a driver asking agent ai for moves through post.
func NewDriver(game *tetris.Game, ai string, post func(protocol.WorkerRequest) bool) *Driver {
	return &Driver{game: game, ai: ai, post: post}
}

// SetTimeout abandons an outstanding request after the given number of
// idle steps. Zero waits forever.
func (d *Driver) SetTimeout(steps int) {
	d.timeout = steps
}

// Step applies the next queued action, or asks for a decision when nothing
// is queued and no request is outstanding.
func (d *Driver) Step() tetris.Result {
	if d.game.State() != tetris.StateActive {
		return tetris.Result{}
	}
	if len(d.actions) > 0 {
		a := d.actions[0]
		d.actions = d.actions[1:]
		return d.game.Apply(a)
	}
	if d.pending {
		if d.timeout > 0 {
			d.waited++
			if d.waited >= d.timeout {
				d.pending = false
				d.message = "Request timed out"
			}
		}
		return tetris.Result{}
	}

	id := d.nextID + 1
	if d.post(protocol.NewEvaluate(id, d.ai, d.game)) {
		d.nextID = id
		d.pendingID = id
		d.pending = true
		d.waited = 0
	}
	return tetris.Result{}
}

// Handle processes a worker message. It reports whether the message was
// accepted.
func (d *Driver) Handle(resp protocol.WorkerResponse) bool {
	switch resp.Type {
	case protocol.TypeReady:
		d.pending = false
		return true
	case protocol.TypeEvaluate:
		if !d.pending || resp.ID != d.pendingID {
			return false
		}
		d.pending = false
		d.message = resp.Message
		if resp.Success {
			d.actions = append(d.actions, untilLock(resp.Actions)...)
		} else {
			// Without a decision the piece is dropped where it is so
			// the game keeps moving.
			d.actions = append(d.actions, tetris.ActionHardDrop)
		}
		return true
	}
	return false
}

// Reset restarts the game with seed and forgets queued actions and the
// outstanding request.
func (d *Driver) Reset(seed int64) {
	d.actions = nil
	d.pending = false
	d.waited = 0
	d.message = ""
	d.game.Start(seed)
}

// Pending returns the id of the outstanding request, if any.
func (d *Driver) Pending() (int64, bool) {
	return d.pendingID, d.pending
}

// Queued returns the number of actions waiting to be applied.
func (d *Driver) Queued() int { return len(d.actions) }

// Message returns the status text of the last accepted response.
func (d *Driver) Message() string { return d.message }

// Game returns the driven game.
func (d *Driver) Game() *tetris.Game { return d.game }

// untilLock cuts actions after the first hard drop, or appends one when
// the actions never lock the piece.
func untilLock(actions []tetris.Action) []tetris.Action {
	for i, a := range actions {
		if a == tetris.ActionHardDrop {
			return actions[:i+1]
		}
	}
	return append(actions[:len(actions):len(actions)], tetris.ActionHardDrop)
}
