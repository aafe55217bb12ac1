package tetris

import "github.com/vovakirdan/blockfall/internal/core"

// Phase is the loop state observed at the end of a tick.
type Phase string

const (
	PhaseFalling   Phase = "falling"
	PhaseSettling  Phase = "settling"   // a piece landed this tick and a new one spawned
	PhaseToppedOut Phase = "topped_out" // the new piece collided and the board was reset
	PhasePaused    Phase = "paused"
	PhaseTooSmall  Phase = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Variant   Variant
	Phase     Phase
	Score     int
	Lines     int
	TopOuts   int
	Spawned   int
	FallAccum int
	Shape     ShapeID
	Cells     [4]core.Point
	Color     core.Color
	Occupied  int
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	phase := g.phase
	switch {
	case g.tooSmall:
		phase = PhaseTooSmall
	case g.paused:
		phase = PhasePaused
	}

	occupied := 0
	if g.grid != nil {
		occupied = g.grid.OccupiedCount()
	}

	return Snapshot{
		Tick:      g.tick,
		Variant:   g.variant,
		Phase:     phase,
		Score:     g.score,
		Lines:     g.lines,
		TopOuts:   g.topOuts,
		Spawned:   g.spawned,
		FallAccum: g.fallAccum,
		Shape:     g.piece.Shape,
		Cells:     g.piece.Cells,
		Color:     g.piece.Color,
		Occupied:  occupied,
	}
}
