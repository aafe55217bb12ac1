package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// RandomSource supplies uniform choices in [0, n). *rand.Rand satisfies it;
// tests inject fixed sequences.
type RandomSource interface {
	Intn(n int) int
}

// Spawner creates new falling pieces at the top center of the field.
type Spawner struct {
	rng RandomSource
}

// NewSpawner returns a spawner drawing from rng.
func NewSpawner(rng RandomSource) *Spawner {
	return &Spawner{rng: rng}
}

// Spawn draws a shape, then independently a color, and anchors the piece at
// column columns/2 on row 0.
func (s *Spawner) Spawn(columns int) ActivePiece {
	shape := ShapeID(s.rng.Intn(ShapeCount))
	color := core.PieceColors[s.rng.Intn(len(core.PieceColors))]
	return Place(shape, core.Point{X: columns / 2, Y: 0}, color)
}
