package tetris

import (
	"errors"
	"fmt"
)

// ErrQueueExhausted is the panic value raised when a piece must be
// locked but no successor is queued.
var ErrQueueExhausted = errors.New("tetris: queue exhausted")

// OutOfBoundsError is the panic value raised by direct tile access
// outside the board.
type OutOfBoundsError struct {
	X, Y int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tetris: tile (%d, %d) out of bounds", e.X, e.Y)
}
