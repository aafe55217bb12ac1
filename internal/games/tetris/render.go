package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

const (
	cellWidth = 2 // terminal columns per grid cell
	hudHeight = 2
	hudWidth  = 28
)

// fieldSize returns the bordered field dimensions in screen cells.
func (g *Game) fieldSize() (w, h int) {
	cols := g.cfg.Board.Columns - 1
	rows := g.cfg.Board.Rows - 1
	return cols*cellWidth + 2, rows + 2
}

func (g *Game) minScreenSize() (w, h int) {
	fw, fh := g.fieldSize()
	return max(fw, hudWidth), fh + hudHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.grid == nil {
		return
	}

	fieldW, fieldH := g.fieldSize()
	fieldX := max(0, (dst.Width()-fieldW)/2)
	fieldY := hudHeight

	g.renderHUD(dst)
	dst.DrawBox(core.NewRect(fieldX, fieldY, fieldW, fieldH), core.ColorGray)
	g.renderField(dst, fieldX+1, fieldY+1)

	if g.paused {
		midY := fieldY + fieldH/2
		dst.DrawTextCentered(midY, " PAUSED ")
		dst.DrawTextCentered(midY+1, " P to resume ")
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	minW, minH := g.minScreenSize()
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minW, minH))
}

func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, g.Title())
	stats := fmt.Sprintf("Score %d  Lines %d  Resets %d", g.score, g.lines, g.topOuts)
	dst.DrawTextCentered(1, stats)
}

// renderField draws settled cells and the falling piece. The hidden margin
// column and floor row are not drawn.
func (g *Game) renderField(dst *core.Screen, originX, originY int) {
	for y := 0; y < g.grid.PlayableRows(); y++ {
		for x := 0; x < g.grid.PlayableColumns(); x++ {
			px := originX + x*cellWidth
			py := originY + y
			cell := g.grid.Cell(x, y)
			if cell.State == Occupied {
				g.drawBlock(dst, px, py, cell.Color)
				continue
			}
			dst.SetColored(px, py, '·', core.ColorGray)
		}
	}

	for _, c := range g.piece.Cells {
		if c.X < 0 || c.X >= g.grid.PlayableColumns() || c.Y < 0 || c.Y >= g.grid.PlayableRows() {
			continue
		}
		g.drawBlock(dst, originX+c.X*cellWidth, originY+c.Y, g.piece.Color)
	}
}

func (g *Game) drawBlock(dst *core.Screen, x, y int, color core.Color) {
	for i := range cellWidth {
		dst.SetColored(x+i, y, '█', color)
	}
}
