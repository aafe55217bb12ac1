package tetris

import (
	"testing"

	"github.com/vovakirdan/blockfall/internal/core"
)

func fillRow(g *Grid, y int) {
	for x := 0; x < g.PlayableColumns(); x++ {
		g.SetCell(x, y, core.ColorRed)
	}
}

func TestEvaluateSingleRow(t *testing.T) {
	g := NewGrid(11, 21)
	fillRow(g, 19)
	g.SetCell(3, 18, core.ColorGreen)

	if n := Evaluate(g); n != 1 {
		t.Fatalf("Evaluate() = %d, expected 1", n)
	}
	if c := g.Cell(3, 19); c.State != Occupied || c.Color != core.ColorGreen {
		t.Errorf("Cell(3, 19) = %+v, expected shifted green cell", c)
	}
	if g.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount() = %d, expected 1", g.OccupiedCount())
	}
}

func TestEvaluateStackedRows(t *testing.T) {
	g := NewGrid(11, 21)
	fillRow(g, 18)
	fillRow(g, 19)
	g.SetCell(0, 17, core.ColorBlue)

	if n := Evaluate(g); n != 2 {
		t.Fatalf("Evaluate() = %d, expected 2", n)
	}
	if !g.IsOccupied(0, 19) || g.OccupiedCount() != 1 {
		t.Errorf("expected only (0, 19) occupied, got %d cells", g.OccupiedCount())
	}
}

func TestEvaluateSeparatedRows(t *testing.T) {
	g := NewGrid(11, 21)
	fillRow(g, 17)
	g.SetCell(1, 18, core.ColorBlue)
	fillRow(g, 19)

	if n := Evaluate(g); n != 2 {
		t.Fatalf("Evaluate() = %d, expected 2", n)
	}
	if !g.IsOccupied(1, 19) || g.OccupiedCount() != 1 {
		t.Errorf("expected only (1, 19) occupied, got %d cells", g.OccupiedCount())
	}
}

func TestEvaluateNoFullRows(t *testing.T) {
	g := NewGrid(11, 21)
	for x := 0; x < g.PlayableColumns()-1; x++ {
		g.SetCell(x, 19, core.ColorRed)
	}

	if n := Evaluate(g); n != 0 {
		t.Errorf("Evaluate() = %d, expected 0", n)
	}
	if g.OccupiedCount() != 9 {
		t.Errorf("OccupiedCount() = %d, expected 9", g.OccupiedCount())
	}
}

func TestEvaluateLeavesNoFullRow(t *testing.T) {
	g := NewGrid(11, 21)
	for y := 0; y < g.PlayableRows(); y++ {
		fillRow(g, y)
	}

	if n := Evaluate(g); n != g.PlayableRows() {
		t.Errorf("Evaluate() = %d, expected %d", n, g.PlayableRows())
	}
	for y := 0; y < g.Rows(); y++ {
		if g.RowFull(y) {
			t.Errorf("row %d still full", y)
		}
	}
}
