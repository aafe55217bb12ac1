package tui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// resizer is implemented by games that can follow a terminal resize without
// restarting.
type resizer interface {
	Resize(w, h int)
}

// blocker is implemented by games that ignore ticks while the screen is too
// small. Such ticks are neither recorded nor fed from a playback.
type blocker interface {
	TooSmall() bool
}

// rulesGame exposes the rules a game was built with, for recordings.
type rulesGame interface {
	Config() config.TetrisConfig
}

// Model is the Bubble Tea model for running one game, live or from a
// recording.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	keys      *KeyMapper
	logger    *log.Logger
	record    bool
	recorder  *replay.Recorder
	playback  *replay.Playback
	player    string
	allowBack bool

	pending   core.InputFrame
	holdTicks int // soft drop ticks granted per key press
	dropLeft  int // soft drop ticks still held
	gameState core.GameState

	quitting   bool
	backToMenu bool
}

// ModelOption customizes a Model.
type ModelOption func(*Model)

// WithLogger routes game events to logger.
func WithLogger(logger *log.Logger) ModelOption {
	return func(m *Model) { m.logger = logger }
}

// WithRecording captures every tick so the session can be saved.
func WithRecording(player string) ModelOption {
	return func(m *Model) {
		m.record = true
		m.player = player
	}
}

// WithPlayback drives the game from a recording instead of the keyboard.
func WithPlayback(pb *replay.Playback) ModelOption {
	return func(m *Model) { m.playback = pb }
}

// WithBackToMenu lets esc/b leave the game while paused or during playback.
func WithBackToMenu() ModelOption {
	return func(m *Model) { m.allowBack = true }
}

// WithSoftDropHold sets how many ticks one down press keeps the soft drop
// active. Terminals report no key release, so auto-repeat refreshes it.
func WithSoftDropHold(ticks int) ModelOption {
	return func(m *Model) { m.holdTicks = ticks }
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keys:      NewKeyMapper(),
		logger:    log.New(io.Discard),
		pending:   core.NewInputFrame(),
		holdTicks: config.DefaultTetrisConfig().Input.SoftDropHoldTicks,
	}
	for _, opt := range opts {
		opt(&m)
	}

	// The recorder needs the final seed
	if m.record {
		if rg, ok := game.(rulesGame); ok {
			rec, err := replay.NewRecorder(game.ID(), rg.Config(), m.config)
			if err != nil {
				m.logger.Warn("recording disabled", "error", err)
			} else {
				m.recorder = rec
			}
		}
	}

	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed, "recording", m.recorder != nil)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack {
		if m.allowBack && (m.gameState.Paused || m.playback != nil) {
			m.backToMenu = true
		}
		return m, nil
	}

	// Recorded input drives the game during playback
	if m.playback != nil {
		return m, nil
	}

	switch action {
	case core.ActionSoftDrop:
		m.dropLeft = max(m.holdTicks, 1)
	case core.ActionNone:
	default:
		m.pending.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if b, ok := m.game.(blocker); ok && b.TooSmall() {
		m.pending.Clear()
		m.gameState = m.game.State()
		return m, tickCmd(m.config.TickRate)
	}

	var in core.InputFrame
	if m.playback != nil {
		next, ok := m.playback.Next()
		if !ok {
			m.gameState = m.game.State()
			return m, tickCmd(m.config.TickRate)
		}
		in = next
	} else {
		in = m.pending.Clone()
		if m.dropLeft > 0 {
			in.Set(core.ActionSoftDrop)
			m.dropLeft--
		}
	}

	if m.recorder != nil {
		m.recorder.Record(in)
	}

	result := m.game.Step(in)
	m.gameState = result.State
	m.logEvents(result)

	m.pending.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m Model) logEvents(result core.StepResult) {
	for _, ev := range result.Events {
		switch ev.Kind {
		case core.EventLinesCleared:
			m.logger.Debug("lines cleared", "lines", ev.Value, "score", result.State.Score)
		case core.EventToppedOut:
			m.logger.Info("board reset", "penalty", ev.Value, "score", result.State.Score)
		}
	}
}

func (m Model) playbackDone() bool {
	return m.playback != nil && m.playback.Done()
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.playback != nil {
		status := fmt.Sprintf(" REPLAY %d/%d ", m.playback.Position(), m.playback.Len())
		if m.playbackDone() {
			status = " REPLAY FINISHED  q: quit "
		}
		m.screen.DrawTextColored(0, m.screen.Height()-1, status, core.ColorCyan)
	}
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// State returns the last observed game state.
func (m Model) State() core.GameState { return m.gameState }

// Recording returns the captured session, or nil when not recording.
func (m Model) Recording() *replay.Recording {
	if m.recorder == nil || m.recorder.Ticks() == 0 {
		return nil
	}
	return m.recorder.Finish(m.game.State().Score, m.player)
}

// Result is the outcome of a finished terminal session.
type Result struct {
	Score     int
	Recording *replay.Recording
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, cfg core.RuntimeConfig, opts ...ModelOption) (Result, error) {
	model := NewModel(game, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("tui: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return Result{}, nil
	}
	return Result{
		Score:     m.game.State().Score,
		Recording: m.Recording(),
	}, nil
}
