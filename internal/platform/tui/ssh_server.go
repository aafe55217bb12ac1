package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// GameFactory builds a fresh game for an ID chosen in the menu.
type GameFactory func(id string) (registry.Game, error)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.blockfall/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// SoftDropHold is the soft drop hold window in ticks.
	SoftDropHold int

	// Record saves every finished session to Store.
	Record bool

	// Store holds recordings; nil disables recording and the browser.
	Store *storage.Store

	// Games builds the game for a menu selection. Defaults to registry.Create.
	Games GameFactory

	// Logger receives server and session events. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		IdleTimeout:  30 * time.Minute,
		TickRate:     60,
		SoftDropHold: 6,
	}
}

// SSHServer wraps a Wish SSH server that gives every session its own game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "blockfall-ssh",
		})
	}
	if cfg.Games == nil {
		cfg.Games = registry.Create
	}

	srv := &SSHServer{
		config: cfg,
		logger: cfg.Logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".blockfall", "host_key")
	}

	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	sessionID, _ := sshSession.Context().Value(sessionIDKey{}).(uuid.UUID)
	logger := s.logger.With("session", shortID(sessionID), "user", sshSession.User())

	model := NewSessionModel(s.config, cfg, sshSession.User(), logger)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

type sessionIDKey struct{}

// loggingMiddleware tags each session with an ID and logs its lifetime.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := uuid.New()
		sshSession.Context().SetValue(sessionIDKey{}, id)

		start := time.Now()
		s.logger.Info("session started",
			"session", shortID(id),
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"session", shortID(id),
			"user", sshSession.User(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("tui: SSH server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenRecordings
)

// SessionModel manages one remote session: menu -> game or recordings -> menu.
type SessionModel struct {
	server     SSHServerConfig
	config     core.RuntimeConfig
	username   string
	logger     *log.Logger
	screen     sessionScreen
	menu       MenuModel
	recordings RecordingsModel
	game       *Model
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(server SSHServerConfig, cfg core.RuntimeConfig, username string, logger *log.Logger) SessionModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return SessionModel{
		server:   server,
		config:   cfg,
		username: username,
		logger:   logger,
		menu:     NewMenuModel(cfg, server.Store != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenRecordings:
		return m.updateRecordings(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, swallowQuit(cmd)
	}

	if selected.Kind == MenuItemRecordings {
		m.recordings = NewRecordingsModel(m.server.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenRecordings
		return m, m.recordings.Init()
	}

	game, err := m.server.Games(selected.GameID)
	if err != nil {
		m.logger.Error("cannot create game", "game", selected.GameID, "error", err)
		m.menu = NewMenuModel(m.config, m.server.Store != nil)
		return m, nil
	}

	m.config.Seed = time.Now().UnixNano()
	opts := []ModelOption{
		WithLogger(m.logger.With("game", game.ID())),
		WithBackToMenu(),
		WithSoftDropHold(m.server.SoftDropHold),
	}
	if m.server.Record && m.server.Store != nil {
		opts = append(opts, WithRecording(m.username))
	}
	return m.startGame(NewModel(game, m.config, opts...))
}

func (m SessionModel) startGame(gm Model) (tea.Model, tea.Cmd) {
	m.game = &gm
	m.screen = screenGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.BackToMenu() || m.game.IsQuitting() {
		m.saveRecording()
		if m.game.IsQuitting() {
			m.quitting = true
			return m, tea.Quit
		}
		m.game = nil
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config, m.server.Store != nil)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateRecordings handles the recordings browser.
func (m SessionModel) updateRecordings(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.recordings.Update(msg)
	if rm, ok := newModel.(RecordingsModel); ok {
		m.recordings = rm
	}

	switch {
	case m.recordings.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.recordings.IsGoingBack():
		m.screen = screenMenu
		m.menu = NewMenuModel(m.config, m.server.Store != nil)
		return m, m.menu.Init()

	case m.recordings.Selected() != nil:
		rec, err := m.server.Store.Recording(*m.recordings.Selected())
		if err == nil {
			var game registry.Game
			game, err = rec.NewGame()
			if err == nil {
				rc := rec.RuntimeConfig(m.config.ScreenW, m.config.ScreenH)
				return m.startGame(NewModel(game, rc,
					WithPlayback(replay.NewPlayback(rec)),
					WithBackToMenu(),
					WithLogger(m.logger.With("replay", shortID(rec.ID))),
				))
			}
		}
		m.logger.Error("cannot play recording", "error", err)
		m.recordings = NewRecordingsModel(m.server.Store, m.config.ScreenW, m.config.ScreenH)
		return m, nil
	}

	return m, swallowQuit(cmd)
}

// saveRecording stores the finished game's recording, if any.
func (m SessionModel) saveRecording() {
	if m.game == nil || m.server.Store == nil {
		return
	}
	rec := m.game.Recording()
	if rec == nil {
		return
	}
	if err := m.server.Store.SaveRecording(rec); err != nil {
		m.logger.Warn("could not save recording", "error", err)
		return
	}
	m.logger.Info("recording saved", "id", shortID(rec.ID), "ticks", rec.Ticks(), "score", rec.FinalScore)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenRecordings:
		return m.recordings.View()
	default:
		return m.menu.View()
	}
}

// swallowQuit drops the tea.Quit a sub-model returns when it finishes; the
// session decides when the program ends.
func swallowQuit(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return nil
		}
		return msg
	}
}
