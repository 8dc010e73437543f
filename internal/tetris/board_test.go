package tetris

import (
	"errors"
	"testing"
)

func fillRow(b *Board, y int, skip ...int) {
	skipped := map[int]bool{}
	for _, x := range skip {
		skipped[x] = true
	}
	for x := 0; x < BoardWidth; x++ {
		if !skipped[x] {
			b.Set(x, y, TileGarbage)
		}
	}
}

func TestOutOfBoundsPanics(t *testing.T) {
	cases := []Point{{-1, 0}, {BoardWidth, 0}, {0, -1}, {0, BoardHeight}}
	for _, c := range cases {
		func() {
			defer func() {
				r := recover()
				err, ok := r.(error)
				var oob *OutOfBoundsError
				if !ok || !errors.As(err, &oob) {
					t.Errorf("Get(%d, %d) panic = %v, expected *OutOfBoundsError", c.X, c.Y, r)
				}
			}()
			NewBoard().Get(c.X, c.Y)
		}()
	}
}

func TestLockSingleLine(t *testing.T) {
	b := NewBoard()
	fillRow(b, 0, 6, 7, 8, 9)
	b.Set(0, 1, TileS)

	info := b.Lock(Piece{Type: PieceI, Rotation: 0, X: 6, Y: -2})
	if info.LinesCleared != 1 {
		t.Errorf("LinesCleared = %d, expected 1", info.LinesCleared)
	}
	if info.TopOut || info.TSpin {
		t.Errorf("Lock() = %+v, expected no top-out or t-spin", info)
	}
	if got := b.Get(0, 0); got != TileS {
		t.Errorf("row 1 not compacted: Get(0,0) = %v, expected S", got)
	}
	if b.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount() = %d, expected 1", b.OccupiedCount())
	}
}

func TestLockMultipleLinesWithGap(t *testing.T) {
	b := NewBoard()
	// Rows 0 and 2 need column 9; row 1 stays incomplete.
	fillRow(b, 0, 9)
	fillRow(b, 1, 8, 9)
	fillRow(b, 2, 9)
	fillRow(b, 3, 9)

	// Vertical I in column 9 covering rows 0..3.
	info := b.Lock(Piece{Type: PieceI, Rotation: 3, X: 8, Y: 0})
	if info.LinesCleared != 3 {
		t.Fatalf("LinesCleared = %d, expected 3", info.LinesCleared)
	}
	// The partial row drops to the floor.
	if b.Get(0, 0) != TileGarbage || b.Get(8, 0) != TileEmpty || b.Get(9, 0) != TileI {
		t.Errorf("row 0 after clear:\n%s", b)
	}
	if b.Height() != 1 {
		t.Errorf("Height() = %d, expected 1", b.Height())
	}
}

func TestLockTopOutWritesFirst(t *testing.T) {
	b := NewBoard()
	p := NewPiece(PieceT)
	b.Set(4, 21, TileGarbage)
	info := b.Lock(p)
	if !info.TopOut {
		t.Fatal("TopOut = false, expected true")
	}
	if b.Get(4, 21) != TileT {
		t.Errorf("Get(4,21) = %v, expected T written over garbage", b.Get(4, 21))
	}
}

func TestCheckTSpin(t *testing.T) {
	p := Piece{Type: PieceT, Rotation: 0, X: 3, Y: 0}
	tests := []struct {
		name     string
		occupied []Point
		expected bool
	}{
		{"upper both lower one", []Point{{3, 2}, {5, 2}, {3, 0}}, true},
		{"all four", []Point{{3, 2}, {5, 2}, {3, 0}, {5, 0}}, true},
		{"upper both only", []Point{{3, 2}, {5, 2}}, false},
		{"lower both upper one", []Point{{3, 0}, {5, 0}, {3, 2}}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			for _, c := range tt.occupied {
				b.Set(c.X, c.Y, TileGarbage)
			}
			if got := b.CheckTSpin(p); got != tt.expected {
				t.Errorf("CheckTSpin() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCheckTSpinRotations(t *testing.T) {
	// Facing side per rotation: up, right, down, left.
	tests := []struct {
		rotation int
		occupied []Point
	}{
		{0, []Point{{3, 7}, {5, 7}, {5, 5}}},
		{1, []Point{{5, 5}, {5, 7}, {3, 5}}},
		{2, []Point{{3, 5}, {5, 5}, {3, 7}}},
		{3, []Point{{3, 5}, {3, 7}, {5, 7}}},
	}
	for _, tt := range tests {
		b := NewBoard()
		for _, c := range tt.occupied {
			b.Set(c.X, c.Y, TileGarbage)
		}
		p := Piece{Type: PieceT, Rotation: tt.rotation, X: 3, Y: 5}
		if !b.CheckTSpin(p) {
			t.Errorf("rotation %d: CheckTSpin() = false, expected true", tt.rotation)
		}
	}
}

func TestCheckTSpinGuards(t *testing.T) {
	b := NewBoard()
	fillRow(b, 0)
	fillRow(b, 2)
	if b.CheckTSpin(Piece{Type: PieceL, Rotation: 0, X: 3, Y: 0}) {
		t.Error("CheckTSpin() on L = true, expected false")
	}
	if b.CheckTSpin(Piece{Type: PieceT, Rotation: 1, X: -1, Y: 0}) {
		t.Error("CheckTSpin() with footprint off the board = true, expected false")
	}
}

func TestAddGarbage(t *testing.T) {
	b := NewBoard()
	b.Set(0, 0, TileO)
	b.AddGarbage(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < BoardWidth; x++ {
			want := TileGarbage
			if x == 3 {
				want = TileEmpty
			}
			if got := b.Get(x, y); got != want {
				t.Errorf("Get(%d, %d) = %v, expected %v", x, y, got, want)
			}
		}
	}
	if b.Get(0, 2) != TileO {
		t.Errorf("Get(0, 2) = %v, expected shifted O", b.Get(0, 2))
	}
}

func TestVisibleMatrix(t *testing.T) {
	b := NewBoard()
	b.Set(2, 0, TileJ)
	b.Set(9, 19, TileGarbage)
	b.Set(9, 20, TileGarbage)
	m := b.Visible()
	if !m[2][0] || !m[9][19] {
		t.Error("Visible() missing occupied cells")
	}
	if m[0][0] {
		t.Error("Visible()[0][0] = true, expected false")
	}
}
