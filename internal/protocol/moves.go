package protocol

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Move is an agent instruction as it appears on the wire.
type Move string

const (
	MoveShiftLeft   Move = "shiftLeft"
	MoveShiftRight  Move = "shiftRight"
	MoveRotateLeft  Move = "rotateLeft"
	MoveRotateRight Move = "rotateRight"
	MoveRotate180   Move = "rotate180"
	MoveHold        Move = "hold"
	MoveSoftDrop    Move = "softDrop"
	MoveHardDrop    Move = "hardDrop"
)

var moveActions = map[Move]tetris.Action{
	MoveShiftLeft:   tetris.ActionShiftLeft,
	MoveShiftRight:  tetris.ActionShiftRight,
	MoveRotateLeft:  tetris.ActionRotateCCW,
	MoveRotateRight: tetris.ActionRotateCW,
	MoveRotate180:   tetris.ActionRotate180,
	MoveHold:        tetris.ActionHold,
	MoveSoftDrop:    tetris.ActionSoftDrop,
	MoveHardDrop:    tetris.ActionHardDrop,
}

// AllMoves lists the moves an agent may send.
var AllMoves = []Move{
	MoveShiftLeft, MoveShiftRight, MoveRotateLeft, MoveRotateRight,
	MoveRotate180, MoveHold, MoveSoftDrop, MoveHardDrop,
}

// ParseMove validates a wire move name.
func ParseMove(s string) (Move, error) {
	m := Move(s)
	if _, ok := moveActions[m]; !ok {
		return "", fmt.Errorf("%w: unknown move %q", ErrMalformed, s)
	}
	return m, nil
}

// Action returns the engine action for m.
func (m Move) Action() (tetris.Action, bool) {
	a, ok := moveActions[m]
	return a, ok
}

// MoveFor returns the wire move for an engine action. Actions without a
// wire form, such as shift-down, report false.
func MoveFor(a tetris.Action) (Move, bool) {
	for m, ma := range moveActions {
		if ma == a {
			return m, true
		}
	}
	return "", false
}
