// Package desktop runs a game in a native window with Ebitengine. Every grid
// cell is a filled rectangle; empty cells are outlined.
package desktop

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// CellSize is the edge of one grid cell in logical pixels.
const CellSize = 25

// Window adapts a game to ebiten.Game.
type Window struct {
	game     *tetris.Game
	config   core.RuntimeConfig
	logger   *log.Logger
	recorder *replay.Recorder
	playback *replay.Playback
	record   bool
	player   string
}

// Option customizes a Window.
type Option func(*Window)

// WithLogger routes game events to logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Window) { w.logger = logger }
}

// WithRecording captures every tick so the session can be saved on exit.
func WithRecording(player string) Option {
	return func(w *Window) {
		w.record = true
		w.player = player
	}
}

// WithPlayback drives the game from a recording instead of the keyboard.
func WithPlayback(pb *replay.Playback) Option {
	return func(w *Window) { w.playback = pb }
}

// New creates a window for game. The game is reset with cfg; its screen size
// is ignored since the window never gets too small.
func New(game *tetris.Game, cfg core.RuntimeConfig, opts ...Option) (*Window, error) {
	cfg.ScreenW, cfg.ScreenH = 0, 0
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	w := &Window{
		game:   game,
		config: cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.record && w.playback == nil {
		rec, err := replay.NewRecorder(game.ID(), game.Config(), cfg)
		if err != nil {
			return nil, fmt.Errorf("desktop: %w", err)
		}
		w.recorder = rec
	}
	game.Reset(cfg)
	return w, nil
}

// Size returns the logical window size for the game's grid.
func (w *Window) Size() (width, height int) {
	g := w.game.Grid()
	return g.PlayableColumns() * CellSize, g.PlayableRows() * CellSize
}

// Update advances the game by one tick.
func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var in core.InputFrame
	if w.playback != nil {
		next, ok := w.playback.Next()
		if !ok {
			return nil
		}
		in = next
	} else {
		in = readInput()
	}

	if w.recorder != nil {
		w.recorder.Record(in)
	}

	res := w.game.Step(in)
	for _, ev := range res.Events {
		switch ev.Kind {
		case core.EventLinesCleared:
			w.logger.Debug("lines cleared", "lines", ev.Value, "score", res.State.Score)
		case core.EventToppedOut:
			w.logger.Info("board reset", "penalty", ev.Value, "score", res.State.Score)
		}
	}
	return nil
}

// readInput samples the keyboard: moves, rotation and pause trigger once per
// press, soft drop stays active while Down is held.
func readInput() core.InputFrame {
	in := core.NewInputFrame()
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		in.Set(core.ActionLeft)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		in.Set(core.ActionRight)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		in.Set(core.ActionRotate)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		in.Set(core.ActionPause)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		in.Set(core.ActionSoftDrop)
	}
	return in
}

// Draw renders the field, the falling piece and the score.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	g := w.game.Grid()
	for y := 0; y < g.PlayableRows(); y++ {
		for x := 0; x < g.PlayableColumns(); x++ {
			cell := g.Cell(x, y)
			if cell.State == tetris.Occupied {
				fillCell(screen, x, y, rgba(cell.Color))
				continue
			}
			px, py := float32(x*CellSize), float32(y*CellSize)
			vector.StrokeRect(screen, px, py, CellSize, CellSize, 1, emptyCellColor, false)
		}
	}

	p := w.game.Piece()
	for _, c := range p.Cells {
		if c.X < 0 || c.X >= g.PlayableColumns() || c.Y < 0 || c.Y >= g.PlayableRows() {
			continue
		}
		fillCell(screen, c.X, c.Y, rgba(p.Color))
	}

	width, height := w.Size()
	text.Draw(screen, fmt.Sprintf("Score:%d", w.game.Score()), basicfont.Face7x13, width-120, 23, textColor)

	switch {
	case w.game.Paused():
		vector.DrawFilledRect(screen, 0, 0, float32(width), float32(height), overlayColor, false)
		msg := "PAUSED"
		text.Draw(screen, msg, basicfont.Face7x13, width/2-len(msg)*7/2, height/2, rgba(core.ColorWhite))
	case w.playback != nil:
		msg := fmt.Sprintf("REPLAY %d/%d", w.playback.Position(), w.playback.Len())
		text.Draw(screen, msg, basicfont.Face7x13, 6, height-8, textColor)
	}
}

func fillCell(screen *ebiten.Image, x, y int, c color.Color) {
	px, py := float32(x*CellSize), float32(y*CellSize)
	vector.DrawFilledRect(screen, px, py, CellSize, CellSize, c, false)
}

// Layout keeps the logical size fixed; ebiten scales the window.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.Size()
}

// Recording returns the captured session, or nil when not recording.
func (w *Window) Recording() *replay.Recording {
	if w.recorder == nil || w.recorder.Ticks() == 0 {
		return nil
	}
	return w.recorder.Finish(w.game.Score(), w.player)
}

// Run opens the window and blocks until it is closed.
func Run(w *Window, title string) error {
	width, height := w.Size()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(w.config.TickRate)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("desktop: %w", err)
	}
	return nil
}
