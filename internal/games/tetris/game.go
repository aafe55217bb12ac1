// Package tetris implements the falling-block puzzle: a fixed grid, seven
// piece templates, a fixed-step gravity timer, line clears and a top-out
// reset. The game never ends; topping out costs a penalty and empties the
// board.
package tetris

import (
	"math/rand"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
)

// Variant selects the rule set.
type Variant string

const (
	// VariantClassic keeps the original behaviour: rotation is never
	// validated and sideways moves only stop at the field edges.
	VariantClassic Variant = "classic"
	// VariantStrict validates rotations and blocks sideways moves into
	// settled cells.
	VariantStrict Variant = "strict"
)

// Game IDs as registered.
const (
	IDClassic = "tetris"
	IDStrict  = "tetris_strict"
)

// Game implements the falling-block game. All state lives here; nothing is
// kept at package level.
type Game struct {
	variant Variant
	cfg     config.TetrisConfig

	rng      RandomSource
	fixedRNG bool // rng injected by the caller, keep it across Reset
	spawner  *Spawner

	grid  *Grid
	piece ActivePiece
	phase Phase

	tick      uint64
	fallAccum int
	score     int
	lines     int
	topOuts   int
	spawned   int

	paused   bool
	screenW  int
	screenH  int
	tooSmall bool

	events []core.Event
}

// Option customizes a Game at construction.
type Option func(*Game)

// WithRandomSource makes the game draw shapes and colors from rng instead of
// a source seeded from RuntimeConfig.Seed.
func WithRandomSource(rng RandomSource) Option {
	return func(g *Game) {
		g.rng = rng
		g.fixedRNG = true
	}
}

// New creates a game with the built-in default rules.
func New(variant Variant, opts ...Option) *Game {
	return NewWithConfig(config.DefaultTetrisConfig(), variant, opts...)
}

// NewWithConfig creates a game with the given rules. The strict variant
// forces checked rotation and solid sides on top of cfg.
func NewWithConfig(cfg config.TetrisConfig, variant Variant, opts ...Option) *Game {
	if variant == VariantStrict {
		cfg = cfg.Strict()
	}
	g := &Game{
		variant: variant,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// VariantForID maps a registered game ID to its variant.
func VariantForID(id string) (Variant, bool) {
	switch id {
	case IDClassic:
		return VariantClassic, true
	case IDStrict:
		return VariantStrict, true
	default:
		return "", false
	}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New(VariantClassic)
	})
	registry.Register(IDStrict, func() registry.Game {
		return New(VariantStrict)
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantStrict {
		return IDStrict
	}
	return IDClassic
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantStrict {
		return "Tetris (Strict)"
	}
	return "Tetris"
}

// Description returns a one-line summary of the rule set.
func (g *Game) Description() string {
	if g.variant == VariantStrict {
		return "Rotations and sideways moves are blocked by walls and settled cells"
	}
	return "Original rules: free rotation, pieces slide through settled cells sideways"
}

// Variant returns the rule set the game was created with.
func (g *Game) Variant() Variant { return g.variant }

// Config returns the effective rules.
func (g *Game) Config() config.TetrisConfig { return g.cfg }

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	if !g.fixedRNG {
		g.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	g.spawner = NewSpawner(g.rng)
	g.grid = NewGrid(g.cfg.Board.Columns, g.cfg.Board.Rows)
	g.tick = 0
	g.fallAccum = 0
	g.score = 0
	g.lines = 0
	g.topOuts = 0
	g.spawned = 0
	g.paused = false
	g.events = nil
	g.phase = PhaseFalling
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	g.spawn()
}

// Resize updates the screen size without touching game state.
// A zero size (headless or desktop) never counts as too small.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if w == 0 && h == 0 {
		g.tooSmall = false
		return
	}
	minW, minH := g.minScreenSize()
	g.tooSmall = w < minW || h < minH
}

// spawn replaces the active piece with a fresh one.
func (g *Game) spawn() {
	g.piece = g.spawner.Spawn(g.grid.Columns())
	g.spawned++
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = nil

	if g.tooSmall {
		return g.result()
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	g.tick++
	g.phase = PhaseFalling

	dx := 0
	switch {
	case in.Has(core.ActionLeft):
		dx = -1
	case in.Has(core.ActionRight):
		dx = 1
	}
	rotate := in.Has(core.ActionRotate)
	if in.Has(core.ActionSoftDrop) {
		g.fallAccum = g.cfg.Gravity.Threshold
	}

	// Landing is judged on the position before this tick's movement
	dy := 1
	if Landed(g.piece, g.grid) {
		g.settle()
		dy = 0
	}

	if dx != 0 && CanShift(g.piece, dx, g.grid, g.cfg.Rules.SolidSides) {
		g.piece = g.piece.Translate(dx, 0)
	}

	g.fallAccum++
	if g.fallAccum > g.cfg.Gravity.Threshold {
		if dy > 0 && !(g.cfg.Rules.SolidSides && Landed(g.piece, g.grid)) {
			g.piece = g.piece.Translate(0, dy)
		}
		g.fallAccum = 0
	}

	if rotate && (!g.cfg.CheckedRotation() || CanRotate(g.piece, g.grid)) {
		g.piece = g.piece.Rotate()
	}

	return g.result()
}

// settle commits the active piece, clears lines, spawns the next piece and
// handles a top-out.
func (g *Game) settle() {
	g.phase = PhaseSettling

	written := Settle(g.piece, g.grid)
	g.emit(core.EventPieceSettled, written)

	if cleared := Evaluate(g.grid); cleared > 0 {
		g.lines += cleared
		g.score += cleared * g.cfg.Scoring.LineReward
		g.emit(core.EventLinesCleared, cleared)
	}

	g.spawn()

	if ToppedOut(g.piece, g.grid) {
		g.phase = PhaseToppedOut
		g.topOuts++
		g.score = max(0, g.score-g.cfg.Scoring.TopOutPenalty)
		g.grid.Reset()
		g.spawn()
		g.emit(core.EventToppedOut, g.cfg.Scoring.TopOutPenalty)
	}
}

func (g *Game) emit(kind core.EventKind, value int) {
	g.events = append(g.events, core.Event{Kind: kind, Value: value})
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Events: g.events}
}

// State returns the current game state. The game has no terminal state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: false,
		Paused:   g.paused || g.tooSmall,
	}
}

// Grid exposes the playing field for renderers. Callers must not modify it.
func (g *Game) Grid() *Grid { return g.grid }

// Piece returns the falling piece.
func (g *Game) Piece() ActivePiece { return g.piece }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Lines returns the total number of cleared lines.
func (g *Game) Lines() int { return g.lines }

// TopOuts returns how many times the board was reset.
func (g *Game) TopOuts() int { return g.topOuts }

// Paused reports whether the player paused the game.
func (g *Game) Paused() bool { return g.paused }

// TooSmall reports whether the screen cannot fit the field. Ticks are
// ignored until it can.
func (g *Game) TooSmall() bool { return g.tooSmall }
