package tetris

// CanShift reports whether the piece may move dx columns. A move that would
// put any cell left of column 0 or into the hidden margin column is refused.
// With solidSides, moves into settled cells are refused as well.
func CanShift(p ActivePiece, dx int, g *Grid, solidSides bool) bool {
	for _, cell := range p.Cells {
		nx := cell.X + dx
		if nx < 0 || nx >= g.PlayableColumns() {
			return false
		}
		if solidSides && g.IsOccupied(nx, cell.Y) {
			return false
		}
	}
	return true
}

// Landed reports whether the piece can fall no further: a cell's next row
// is the hidden floor row, or the cell directly below is settled.
func Landed(p ActivePiece, g *Grid) bool {
	for _, cell := range p.Cells {
		if cell.Y+1 >= g.PlayableRows() || g.IsOccupied(cell.X, cell.Y+1) {
			return true
		}
	}
	return false
}

// CanMove checks a translation using the classic rules: horizontal
// boundaries only, and downward movement against floor and settled cells.
func CanMove(p ActivePiece, dx, dy int, g *Grid) bool {
	if dx != 0 && !CanShift(p, dx, g, false) {
		return false
	}
	if dy > 0 && Landed(p.Translate(dx, 0), g) {
		return false
	}
	return true
}

// Fits reports whether every cell lies in the playable area on an empty cell.
func Fits(p ActivePiece, g *Grid) bool {
	for _, cell := range p.Cells {
		if cell.X < 0 || cell.X >= g.PlayableColumns() || cell.Y < 0 || cell.Y >= g.PlayableRows() {
			return false
		}
		if g.IsOccupied(cell.X, cell.Y) {
			return false
		}
	}
	return true
}

// CanRotate reports whether the rotated piece fits.
func CanRotate(p ActivePiece, g *Grid) bool {
	return Fits(p.Rotate(), g)
}

// Settle writes the piece's cells into the grid with the piece color and
// returns how many cells became newly occupied. Cells outside the grid
// (reachable only through unchecked rotation) are dropped.
func Settle(p ActivePiece, g *Grid) int {
	written := 0
	for _, cell := range p.Cells {
		wasOccupied := g.IsOccupied(cell.X, cell.Y)
		if g.SetCell(cell.X, cell.Y, p.Color) && !wasOccupied {
			written++
		}
	}
	return written
}

// ToppedOut reports whether a freshly spawned piece cannot be placed: a cell
// lies above the top row or overlaps a settled cell.
func ToppedOut(p ActivePiece, g *Grid) bool {
	for _, cell := range p.Cells {
		if cell.Y < 0 || g.IsOccupied(cell.X, cell.Y) {
			return true
		}
	}
	return false
}
