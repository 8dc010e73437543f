package core

import "strings"

// Cell is one character of a screen with its color.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' '}

// Screen is a fixed-size character buffer. Renderers place runes and colors;
// the platform decides how to show them.
type Screen struct {
	width, height int
	cells         []Cell // row-major, top row first
}

// NewScreen returns a blank screen of width by height characters.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: width, height: height, cells: make([]Cell, width*height)}
	s.Clear()
	return s
}

func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

func (s *Screen) index(x, y int) (int, bool) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, false
	}
	return y*s.width + x, true
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

// Set places a colored rune at (x, y). Positions off the screen are
// ignored.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if i, ok := s.index(x, y); ok {
		s.cells[i] = Cell{Rune: r, Color: c}
	}
}

// Get returns the rune at (x, y), or a space off the screen.
func (s *Screen) Get(x, y int) rune { return s.GetCell(x, y).Rune }

// GetCell returns the cell at (x, y), or a blank cell off the screen.
func (s *Screen) GetCell(x, y int) Cell {
	if i, ok := s.index(x, y); ok {
		return s.cells[i]
	}
	return blank
}

// DrawText writes text left to right from (x, y), one rune per cell,
// clipped at the edges.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	for _, r := range text {
		s.Set(x, y, r, c)
		x++
	}
}

// DrawBox outlines a w by h rectangle whose top-left corner is (x, y).
func (s *Screen) DrawBox(x, y, w, h int, c Color) {
	x1, y1 := x+w-1, y+h-1
	for i := x + 1; i < x1; i++ {
		s.Set(i, y, '─', c)
		s.Set(i, y1, '─', c)
	}
	for j := y + 1; j < y1; j++ {
		s.Set(x, j, '│', c)
		s.Set(x1, j, '│', c)
	}
	s.Set(x, y, '┌', c)
	s.Set(x1, y, '┐', c)
	s.Set(x, y1, '└', c)
	s.Set(x1, y1, '┘', c)
}

// Row returns row y as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// String returns the screen as plain text, rows joined by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
