package protocol

import "github.com/vovakirdan/tui-tetris/internal/tetris"

// wireIDs maps engine piece types to the integers agents see.
// Agents are written against this numbering, so it must not follow
// any reordering of the engine's enum.
var wireIDs = map[tetris.PieceType]int{
	tetris.PieceO: 0,
	tetris.PieceI: 1,
	tetris.PieceT: 2,
	tetris.PieceL: 3,
	tetris.PieceJ: 4,
	tetris.PieceS: 5,
	tetris.PieceZ: 6,
}

var fromWire = func() map[int]tetris.PieceType {
	m := make(map[int]tetris.PieceType, len(wireIDs))
	for t, id := range wireIDs {
		m[id] = t
	}
	return m
}()

// WireID returns the protocol id of a piece type.
func WireID(t tetris.PieceType) int {
	id, ok := wireIDs[t]
	if !ok {
		panic("protocol: no wire id for " + t.String())
	}
	return id
}

// FromWireID converts a protocol id back to a piece type.
func FromWireID(id int) (tetris.PieceType, bool) {
	t, ok := fromWire[id]
	return t, ok
}
