package tetris

import "strings"

const (
	BoardWidth   = 10
	BoardHeight  = 40
	VisibleRows  = 20
	boardTileCnt = BoardWidth * BoardHeight
)

// Tile is the content of one board cell.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileO
	TileI
	TileT
	TileL
	TileJ
	TileS
	TileZ
	TileGarbage
)

// TileOf returns the tile left behind by a locked piece of type t.
func TileOf(t PieceType) Tile {
	return Tile(t) + TileO
}

// Piece returns the piece type that produced the tile, if any.
func (t Tile) Piece() (PieceType, bool) {
	if t < TileO || t > TileZ {
		return 0, false
	}
	return PieceType(t - TileO), true
}

// Empty reports whether the tile is unoccupied.
func (t Tile) Empty() bool { return t == TileEmpty }

func (t Tile) String() string {
	switch {
	case t == TileEmpty:
		return "."
	case t == TileGarbage:
		return "G"
	}
	pt, _ := t.Piece()
	return pt.String()
}

// LockInfo describes the outcome of locking a piece.
type LockInfo struct {
	LinesCleared int
	TopOut       bool
	TSpin        bool
}

// Board is a fixed 10x40 grid stored row-major from the floor up.
// Only the bottom 20 rows are shown to players and agents.
type Board struct {
	tiles [boardTileCnt]Tile
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// InBounds reports whether (x, y) is a cell of the board.
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardWidth && y >= 0 && y < BoardHeight
}

func index(x, y int) int {
	if !InBounds(x, y) {
		panic(&OutOfBoundsError{X: x, Y: y})
	}
	return y*BoardWidth + x
}

// Get returns the tile at (x, y). It panics outside the board.
func (b *Board) Get(x, y int) Tile {
	return b.tiles[index(x, y)]
}

// Set stores a tile at (x, y). It panics outside the board.
func (b *Board) Set(x, y int, t Tile) {
	b.tiles[index(x, y)] = t
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// occupied treats cells outside the board as empty.
func (b *Board) occupied(x, y int) bool {
	return InBounds(x, y) && !b.tiles[y*BoardWidth+x].Empty()
}

// IntersectsWith reports whether any cell of p lands on an occupied tile.
// Cells outside the board never collide; bounds are checked separately.
func (b *Board) IntersectsWith(p Piece) bool {
	for _, c := range p.Cells() {
		if b.occupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// tspinCorners lists, per rotation, the two corners the T points toward
// followed by the two behind it, relative to the piece origin.
var tspinCorners = [4][4]Point{
	{{0, 2}, {2, 2}, {0, 0}, {2, 0}},
	{{2, 0}, {2, 2}, {0, 0}, {0, 2}},
	{{0, 0}, {2, 0}, {0, 2}, {2, 2}},
	{{0, 0}, {0, 2}, {2, 0}, {2, 2}},
}

// CheckTSpin reports whether p is a T wedged so that both corners on its
// pointing side and at least one corner behind it are occupied.
func (b *Board) CheckTSpin(p Piece) bool {
	if p.Type != PieceT {
		return false
	}
	if !InBounds(p.X, p.Y) || !InBounds(p.X+2, p.Y+2) {
		return false
	}
	c := tspinCorners[p.Rotation&3]
	at := func(i int) bool { return b.occupied(p.X+c[i].X, p.Y+c[i].Y) }
	return at(0) && at(1) && (at(2) || at(3))
}

// Lock writes p into the board and clears completed rows.
// Top-out is detected before writing, so an overlapping piece still gets
// written and the caller decides what happens next.
func (b *Board) Lock(p Piece) LockInfo {
	info := LockInfo{
		TopOut: b.IntersectsWith(p),
		TSpin:  b.CheckTSpin(p),
	}

	tile := TileOf(p.Type)
	for _, c := range p.Cells() {
		b.Set(c.X, c.Y, tile)
	}

	for y := 0; y < BoardHeight; y++ {
		if b.rowFull(y) {
			info.LinesCleared++
			continue
		}
		if info.LinesCleared > 0 {
			b.copyRow(y, y-info.LinesCleared)
		}
	}
	for y := BoardHeight - info.LinesCleared; y < BoardHeight; y++ {
		b.clearRow(y)
	}
	return info
}

// AddGarbage pushes the stack up by height rows and fills the new bottom
// rows with garbage, leaving column col open. Rows pushed past the top are
// discarded.
func (b *Board) AddGarbage(col, height int) {
	if height <= 0 {
		return
	}
	if height > BoardHeight {
		height = BoardHeight
	}
	for y := BoardHeight - 1; y >= height; y-- {
		b.copyRow(y-height, y)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < BoardWidth; x++ {
			t := TileGarbage
			if x == col {
				t = TileEmpty
			}
			b.tiles[y*BoardWidth+x] = t
		}
	}
}

func (b *Board) rowFull(y int) bool {
	for x := 0; x < BoardWidth; x++ {
		if b.tiles[y*BoardWidth+x].Empty() {
			return false
		}
	}
	return true
}

func (b *Board) copyRow(from, to int) {
	copy(b.tiles[to*BoardWidth:(to+1)*BoardWidth], b.tiles[from*BoardWidth:(from+1)*BoardWidth])
}

func (b *Board) clearRow(y int) {
	for x := 0; x < BoardWidth; x++ {
		b.tiles[y*BoardWidth+x] = TileEmpty
	}
}

// Visible returns the occupancy of the bottom 20 rows indexed [x][y].
func (b *Board) Visible() [BoardWidth][VisibleRows]bool {
	var m [BoardWidth][VisibleRows]bool
	for x := 0; x < BoardWidth; x++ {
		for y := 0; y < VisibleRows; y++ {
			m[x][y] = b.occupied(x, y)
		}
	}
	return m
}

// OccupiedCount returns the number of non-empty tiles.
func (b *Board) OccupiedCount() int {
	n := 0
	for _, t := range b.tiles {
		if !t.Empty() {
			n++
		}
	}
	return n
}

// Height returns one more than the highest occupied row, or 0 for an
// empty board.
func (b *Board) Height() int {
	for y := BoardHeight - 1; y >= 0; y-- {
		for x := 0; x < BoardWidth; x++ {
			if b.occupied(x, y) {
				return y + 1
			}
		}
	}
	return 0
}

// String renders the visible rows top-down, one line per row.
func (b *Board) String() string {
	var sb strings.Builder
	for y := VisibleRows - 1; y >= 0; y-- {
		for x := 0; x < BoardWidth; x++ {
			sb.WriteString(b.tiles[y*BoardWidth+x].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
