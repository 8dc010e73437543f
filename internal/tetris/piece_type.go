package tetris

import "fmt"

// PieceType identifies one of the seven tetrominoes.
type PieceType int

const (
	PieceO PieceType = iota
	PieceI
	PieceT
	PieceL
	PieceJ
	PieceS
	PieceZ
)

// PieceTypeCount is the number of distinct piece types.
const PieceTypeCount = 7

// AllPieceTypes lists the piece types in canonical bag order.
var AllPieceTypes = [PieceTypeCount]PieceType{PieceO, PieceI, PieceT, PieceL, PieceJ, PieceS, PieceZ}

var pieceNames = [PieceTypeCount]string{"O", "I", "T", "L", "J", "S", "Z"}

func (t PieceType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	return pieceNames[t]
}

// Valid reports whether t is one of the seven piece types.
func (t PieceType) Valid() bool {
	return t >= PieceO && t <= PieceZ
}

// ParsePieceType parses a single-letter piece name.
func ParsePieceType(s string) (PieceType, error) {
	for i, name := range pieceNames {
		if name == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("tetris: unknown piece type %q", s)
}
