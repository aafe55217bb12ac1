package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// ShapeID identifies one of the fixed piece templates.
type ShapeID int

const (
	ShapeI ShapeID = iota
	ShapeL
	ShapeJ
	ShapeO
	ShapeJAlt
	ShapeT
	ShapeS
)

// ShapeCount is the number of templates the spawner draws from.
const ShapeCount = 7

// pivotIndex is the offset every template rotates around; it is always (0, 0).
const pivotIndex = 2

// Shape is a template of four cell offsets relative to the spawn anchor.
type Shape struct {
	ID      ShapeID
	Name    string
	Offsets [4]core.Point
}

// Shapes holds the templates in spawn-draw order. JAlt covers the same cells
// as J listed in a different order; both are kept so the draw stays uniform
// over seven templates.
var Shapes = [ShapeCount]Shape{
	{ShapeI, "I", [4]core.Point{{X: -2, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	{ShapeL, "L", [4]core.Point{{X: -1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	{ShapeJ, "J", [4]core.Point{{X: 1, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	{ShapeO, "O", [4]core.Point{{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: -1, Y: 0}}},
	{ShapeJAlt, "J'", [4]core.Point{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}, {X: -1, Y: 0}}},
	{ShapeT, "T", [4]core.Point{{X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
	{ShapeS, "S", [4]core.Point{{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}},
}

// String returns the template name.
func (s ShapeID) String() string {
	if s < 0 || int(s) >= ShapeCount {
		return "?"
	}
	return Shapes[s].Name
}

// ActivePiece is a template placed on the grid: absolute cell coordinates
// plus the color it was spawned with.
type ActivePiece struct {
	Shape ShapeID
	Cells [4]core.Point
	Color core.Color
}

// Place returns the template anchored at the given absolute position.
func Place(shape ShapeID, anchor core.Point, color core.Color) ActivePiece {
	p := ActivePiece{Shape: shape, Color: color}
	for i, off := range Shapes[shape].Offsets {
		p.Cells[i] = anchor.Add(off)
	}
	return p
}

// Pivot returns the absolute position of the rotation pivot.
func (p ActivePiece) Pivot() core.Point {
	return p.Cells[pivotIndex]
}

// Translate returns the piece moved by (dx, dy).
func (p ActivePiece) Translate(dx, dy int) ActivePiece {
	d := core.Point{X: dx, Y: dy}
	for i := range p.Cells {
		p.Cells[i] = p.Cells[i].Add(d)
	}
	return p
}

// Rotate returns the piece turned 90 degrees around its pivot.
// No bounds or collision checks are made here.
func (p ActivePiece) Rotate() ActivePiece {
	c := p.Pivot()
	for i, cell := range p.Cells {
		rel := cell.Sub(c)
		p.Cells[i] = core.Point{X: c.X - rel.Y, Y: c.Y + rel.X}
	}
	return p
}

// Bottom returns the largest row index among the piece's cells.
func (p ActivePiece) Bottom() int {
	bottom := p.Cells[0].Y
	for _, cell := range p.Cells[1:] {
		bottom = max(bottom, cell.Y)
	}
	return bottom
}

// Occupies reports whether one of the piece's cells is at (x, y).
func (p ActivePiece) Occupies(x, y int) bool {
	for _, cell := range p.Cells {
		if cell.X == x && cell.Y == y {
			return true
		}
	}
	return false
}
