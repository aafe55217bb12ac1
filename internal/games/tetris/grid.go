package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// CellState is the occupancy of a single grid cell.
type CellState uint8

const (
	Empty CellState = iota
	Occupied
)

// Cell is one position of the playing field.
type Cell struct {
	State CellState
	Color core.Color
}

// Grid is the fixed-size playing field, indexed [row][column].
//
// The last column and the last row are hidden margins: pieces never
// translate into column Columns-1, and a cell on row Rows-2 has landed.
// Row 0 is the top margin that is reset whenever a line is cleared.
type Grid struct {
	columns int
	rows    int
	cells   [][]Cell
}

// NewGrid allocates an empty grid. Dimensions never change afterwards.
func NewGrid(columns, rows int) *Grid {
	g := &Grid{columns: columns, rows: rows}
	g.cells = make([][]Cell, rows)
	for y := range g.cells {
		g.cells[y] = make([]Cell, columns)
	}
	return g
}

// Columns returns the storage width, including the hidden margin column.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the storage height, including the hidden floor row.
func (g *Grid) Rows() int { return g.rows }

// PlayableColumns is the number of columns a piece can occupy.
func (g *Grid) PlayableColumns() int { return g.columns - 1 }

// PlayableRows is the number of rows a piece can occupy.
func (g *Grid) PlayableRows() int { return g.rows - 1 }

// InBounds reports whether (x, y) addresses a stored cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.columns && y >= 0 && y < g.rows
}

// IsOccupied reports whether (x, y) holds a settled cell.
// Coordinates outside the grid are never occupied; reaching the floor is a
// separate boundary check.
func (g *Grid) IsOccupied(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y][x].State == Occupied
}

// Cell returns the cell at (x, y), or an empty cell when out of bounds.
func (g *Grid) Cell(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Cell{}
	}
	return g.cells[y][x]
}

// SetCell marks (x, y) occupied with the given color.
// Returns false if the coordinate is outside the grid and nothing was written.
func (g *Grid) SetCell(x, y int, color core.Color) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.cells[y][x] = Cell{State: Occupied, Color: color}
	return true
}

// ClearRow empties every cell of row y.
func (g *Grid) ClearRow(y int) {
	if y < 0 || y >= g.rows {
		return
	}
	for x := range g.cells[y] {
		g.cells[y][x] = Cell{}
	}
}

// ShiftDown moves every row above fromRow down by one, overwriting fromRow,
// and resets row 0 to empty. Cell colors travel with their state.
func (g *Grid) ShiftDown(fromRow int) {
	if fromRow < 0 || fromRow >= g.rows {
		return
	}
	for y := fromRow; y > 0; y-- {
		copy(g.cells[y], g.cells[y-1])
	}
	g.ClearRow(0)
}

// RowFull reports whether every playable column of row y is occupied.
func (g *Grid) RowFull(y int) bool {
	if y < 0 || y >= g.rows {
		return false
	}
	for x := 0; x < g.PlayableColumns(); x++ {
		if g.cells[y][x].State != Occupied {
			return false
		}
	}
	return true
}

// Reset empties the whole grid.
func (g *Grid) Reset() {
	for y := range g.cells {
		g.ClearRow(y)
	}
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	n := 0
	for y := range g.cells {
		for x := range g.cells[y] {
			if g.cells[y][x].State == Occupied {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.columns, g.rows)
	for y := range g.cells {
		copy(c.cells[y], g.cells[y])
	}
	return c
}
