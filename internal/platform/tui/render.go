package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/tetris"
)

// Layout of the game screen. Each board cell is two characters wide.
const (
	boardRows   = tetris.VisibleRows + 2 // spawn rows stay visible
	panelWidth  = 12
	boardLeft   = panelWidth + 1
	boardWidth  = tetris.BoardWidth*2 + 2
	queueLeft   = boardLeft + boardWidth + 1
	screenW     = queueLeft + panelWidth
	screenH     = boardRows + 2
	previewRows = 3
)

var colorStyles = func() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for _, c := range []core.Color{
		core.ColorYellow, core.ColorCyan, core.ColorMagenta, core.ColorOrange,
		core.ColorBlue, core.ColorGreen, core.ColorRed, core.ColorGray, core.ColorBrightWhite,
	} {
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.ANSI()))
	}
	return styles
}()

var pieceColors = [tetris.PieceTypeCount]core.Color{
	tetris.PieceO: core.ColorYellow,
	tetris.PieceI: core.ColorCyan,
	tetris.PieceT: core.ColorMagenta,
	tetris.PieceL: core.ColorOrange,
	tetris.PieceJ: core.ColorBlue,
	tetris.PieceS: core.ColorGreen,
	tetris.PieceZ: core.ColorRed,
}

func tileColor(t tetris.Tile) core.Color {
	if p, ok := t.Piece(); ok {
		return pieceColors[p]
	}
	if t == tetris.TileGarbage {
		return core.ColorGray
	}
	return core.ColorDefault
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one style run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// gameView is everything drawn on the game screen.
type gameView struct {
	game   *tetris.Game
	title  string
	status string
	info   []string
}

// drawGame renders v into s: hold on the left, the board with its ghost in
// the middle and the queue on the right.
func drawGame(s *core.Screen, v gameView) {
	s.Clear()
	g := v.game

	s.DrawBox(0, 0, panelWidth, previewRows+3, core.ColorGray)
	s.DrawText(2, 0, "HOLD", core.ColorBrightWhite)
	if p, ok := g.Hold(); ok {
		c := pieceColors[p]
		if !g.CanHold() {
			c = core.ColorGray
		}
		drawPreview(s, 1, 2, p, c)
	}

	s.DrawBox(boardLeft, 0, boardWidth, boardRows+2, core.ColorGray)
	if v.title != "" {
		s.DrawText(boardLeft+2, 0, v.title, core.ColorBrightWhite)
	}
	b := g.Board()
	for y := 0; y < boardRows; y++ {
		for x := 0; x < tetris.BoardWidth; x++ {
			if t := b.Get(x, y); !t.Empty() {
				drawCell(s, x, y, "[]", tileColor(t))
			} else if y < tetris.VisibleRows {
				drawCell(s, x, y, " .", core.ColorGray)
			}
		}
	}
	if !g.Finished() {
		for _, c := range g.Ghost().Cells() {
			drawCell(s, c.X, c.Y, "::", core.ColorGray)
		}
		p := g.Piece()
		for _, c := range p.Cells() {
			drawCell(s, c.X, c.Y, "[]", pieceColors[p.Type])
		}
	}

	s.DrawBox(queueLeft, 0, panelWidth, tetris.QueueLength*previewRows+2, core.ColorGray)
	s.DrawText(queueLeft+2, 0, "NEXT", core.ColorBrightWhite)
	for i, p := range g.Queue() {
		drawPreview(s, queueLeft+1, 1+i*previewRows, p, pieceColors[p])
	}

	y := previewRows + 4
	s.DrawText(0, y, fmt.Sprintf("Lines %d", g.Score()), core.ColorBrightWhite)
	s.DrawText(0, y+1, fmt.Sprintf("Pieces %d", g.Stats().Pieces), core.ColorDefault)
	for i, line := range v.info {
		s.DrawText(0, y+3+i, line, core.ColorDefault)
	}

	switch g.State() {
	case tetris.StatePaused:
		s.DrawText(boardLeft+7, boardRows/2, " PAUSED ", core.ColorBrightWhite)
	case tetris.StateFinished:
		s.DrawText(boardLeft+6, boardRows/2, " GAME OVER ", core.ColorRed)
		s.DrawText(boardLeft+3, boardRows/2+1, " r to restart ", core.ColorDefault)
	}
	if v.status != "" {
		s.DrawText(boardLeft+1, screenH-1, v.status, core.ColorYellow)
	}
}

// drawCell draws a board cell; y counts up from the bottom row.
func drawCell(s *core.Screen, x, y int, glyph string, c core.Color) {
	if y < 0 || y >= boardRows {
		return
	}
	s.DrawText(boardLeft+1+x*2, boardRows-y, glyph, c)
}

// drawPreview draws piece p in spawn orientation with its top-left corner at
// (x, y).
func drawPreview(s *core.Screen, x, y int, p tetris.PieceType, c core.Color) {
	cells := tetris.Shape(p, 0)
	top := cells[0].Y
	left := cells[0].X
	for _, pt := range cells {
		top = max(top, pt.Y)
		left = min(left, pt.X)
	}
	for _, pt := range cells {
		s.DrawText(x+1+(pt.X-left)*2, y+top-pt.Y, "[]", c)
	}
}
