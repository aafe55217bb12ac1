package tetris

// Evaluate clears every full row and returns how many were cleared.
//
// Rows are scanned from the last playable row up to row 0. A cleared row is
// replaced by the rows above it shifting down and row 0 becomes empty; the
// same index is then examined again, so stacked full rows are all removed.
// Afterwards no row is full.
func Evaluate(g *Grid) int {
	cleared := 0
	for y := g.PlayableRows() - 1; y >= 0; {
		if g.RowFull(y) {
			g.ShiftDown(y)
			cleared++
			continue
		}
		y--
	}
	return cleared
}
