package tetris

// Piece is a tetromino placed on a board. X and Y locate the lower-left
// corner of its 4x4 box. Every committed move keeps the piece inside its
// legal bounds and clear of occupied tiles; failed moves leave it untouched.
type Piece struct {
	Type     PieceType
	Rotation int
	X, Y     int
}

// NewPiece returns a piece of type t at its spawn position.
func NewPiece(t PieceType) Piece {
	p := Piece{Type: t}
	p.Reset()
	return p
}

// Reset moves the piece back to its spawn position and rotation.
func (p *Piece) Reset() {
	sp := spawnPoint(p.Type)
	p.X, p.Y = sp.X, sp.Y
	p.Rotation = 0
}

// Clone returns a copy of p.
func (p Piece) Clone() Piece {
	return p
}

// Cells returns the absolute board coordinates occupied by p.
func (p Piece) Cells() [4]Point {
	cells := Shape(p.Type, p.Rotation)
	for i := range cells {
		cells[i].X += p.X
		cells[i].Y += p.Y
	}
	return cells
}

func (p Piece) fits(b *Board) bool {
	return LocationBounds(p.Type, p.Rotation).Contains(p.X, p.Y) && !b.IntersectsWith(p)
}

// Shift moves the piece by (dx, dy) if the destination is legal.
func (p *Piece) Shift(dx, dy int, b *Board) bool {
	next := *p
	next.X += dx
	next.Y += dy
	if !next.fits(b) {
		return false
	}
	*p = next
	return true
}

func (p *Piece) ShiftLeft(b *Board) bool { return p.Shift(-1, 0, b) }
func (p *Piece) ShiftRight(b *Board) bool { return p.Shift(1, 0, b) }
func (p *Piece) ShiftDown(b *Board) bool { return p.Shift(0, -1, b) }

// repeat applies step until it fails. It reports whether the first step
// succeeded.
func repeat(step func() bool) bool {
	if !step() {
		return false
	}
	for step() {
	}
	return true
}

// DasLeft shifts left as far as possible.
func (p *Piece) DasLeft(b *Board) bool {
	return repeat(func() bool { return p.ShiftLeft(b) })
}

// DasRight shifts right as far as possible.
func (p *Piece) DasRight(b *Board) bool {
	return repeat(func() bool { return p.ShiftRight(b) })
}

// SoftDrop shifts down until the piece rests on something.
func (p *Piece) SoftDrop(b *Board) bool {
	return repeat(func() bool { return p.ShiftDown(b) })
}

// Rotate turns the piece clockwise by amount quarter turns, trying each
// wall kick in order. The first legal placement wins. If none is legal the
// piece keeps its previous rotation and position.
func (p *Piece) Rotate(amount int, b *Board) bool {
	from := p.Rotation
	to := ((from+amount)%4 + 4) % 4
	for _, k := range Kicks(p.Type, from, to) {
		next := Piece{Type: p.Type, Rotation: to, X: p.X + k.X, Y: p.Y + k.Y}
		if next.fits(b) {
			*p = next
			return true
		}
	}
	return false
}

func (p *Piece) RotateCW(b *Board) bool { return p.Rotate(1, b) }
func (p *Piece) Rotate180(b *Board) bool { return p.Rotate(2, b) }
func (p *Piece) RotateCCW(b *Board) bool { return p.Rotate(3, b) }
