package tetris

import (
	"testing"

	"github.com/vovakirdan/blockfall/internal/core"
)

func iAt(x, y int) ActivePiece {
	return Place(ShapeI, core.Point{X: x, Y: y}, core.ColorRed)
}

func TestCanShiftBoundaries(t *testing.T) {
	g := NewGrid(11, 21)

	tests := []struct {
		name   string
		piece  ActivePiece
		dx     int
		expect bool
	}{
		{"left wall", iAt(2, 0), -1, false},
		{"left free", iAt(3, 0), -1, true},
		{"margin column", iAt(8, 0), 1, false},
		{"right free", iAt(7, 0), 1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanShift(tc.piece, tc.dx, g, false); got != tc.expect {
				t.Errorf("CanShift(dx=%d) = %v, expected %v", tc.dx, got, tc.expect)
			}
		})
	}
}

func TestCanShiftSolidSides(t *testing.T) {
	g := NewGrid(11, 21)
	g.SetCell(4, 0, core.ColorBlue)
	p := iAt(2, 0) // cells 0..3

	if !CanShift(p, 1, g, false) {
		t.Error("classic rules should let the piece slide into a settled cell")
	}
	if CanShift(p, 1, g, true) {
		t.Error("solid sides should block the settled cell")
	}
}

func TestLanded(t *testing.T) {
	g := NewGrid(11, 21)

	if Landed(iAt(5, 18), g) {
		t.Error("piece on row 18 should not have landed")
	}
	if !Landed(iAt(5, 19), g) {
		t.Error("piece on row 19 should rest on the floor")
	}

	g.SetCell(4, 11, core.ColorGreen)
	if !Landed(iAt(5, 10), g) {
		t.Error("piece above a settled cell should have landed")
	}
}

func TestCanMove(t *testing.T) {
	g := NewGrid(11, 21)

	if CanMove(iAt(2, 5), -1, 0, g) {
		t.Error("CanMove into the left wall should fail")
	}
	if !CanMove(iAt(5, 5), 0, 1, g) {
		t.Error("CanMove down in open space should succeed")
	}
	if CanMove(iAt(5, 19), 0, 1, g) {
		t.Error("CanMove down from the floor should fail")
	}
}

func TestCanRotate(t *testing.T) {
	g := NewGrid(11, 21)

	if CanRotate(iAt(5, 0), g) {
		t.Error("rotating I at spawn moves cells above row 0 and should fail")
	}
	if !CanRotate(iAt(5, 5), g) {
		t.Error("rotating I in open space should succeed")
	}
	g.SetCell(5, 6, core.ColorRed)
	if CanRotate(iAt(5, 5), g) {
		t.Error("rotating into a settled cell should fail")
	}
}

func TestSettle(t *testing.T) {
	g := NewGrid(11, 21)

	if n := Settle(iAt(5, 19), g); n != 4 {
		t.Errorf("Settle() = %d, expected 4", n)
	}
	for x := 3; x <= 6; x++ {
		if c := g.Cell(x, 19); c.State != Occupied || c.Color != core.ColorRed {
			t.Errorf("Cell(%d, 19) = %+v, expected red", x, c)
		}
	}

	// Cells rotated above the grid are dropped
	g.Reset()
	if n := Settle(iAt(5, 0).Rotate(), g); n != 2 {
		t.Errorf("Settle(out of bounds) = %d, expected 2", n)
	}
}

func TestToppedOut(t *testing.T) {
	g := NewGrid(11, 21)

	if ToppedOut(iAt(5, 0), g) {
		t.Error("fresh piece on an empty grid should not top out")
	}
	if !ToppedOut(iAt(5, 0).Rotate(), g) {
		t.Error("piece above row 0 should top out")
	}
	g.SetCell(6, 0, core.ColorRed)
	if !ToppedOut(iAt(5, 0), g) {
		t.Error("piece overlapping a settled cell should top out")
	}
}
