package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 11}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return out
}

func ticks(t *testing.T, m Model, n int) Model {
	t.Helper()
	for range n {
		m = update(t, m, TickMsg{})
	}
	return m
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim right", runeKey('l'), core.ActionRight, false},
		{"wasd rotate", runeKey('w'), core.ActionRotate, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionSoftDrop, false},
		{"pause", runeKey('p'), core.ActionPause, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"quit", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.action || quit != tc.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.action, tc.quit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	if a := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyEnter}); a != MenuActionSelect {
		t.Errorf("enter = %v, expected select", a)
	}
	if a := km.MapKeyToMenuAction(runeKey('j')); a != MenuActionDown {
		t.Errorf("j = %v, expected down", a)
	}
	if a := km.MapKeyToMenuAction(runeKey('x')); a != MenuActionDelete {
		t.Errorf("x = %v, expected delete", a)
	}
}

func TestSoftDropHold(t *testing.T) {
	game := tetris.New(tetris.VariantClassic)
	m := NewModel(game, testRuntime(), WithSoftDropHold(3))
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = ticks(t, m, 5)

	if y := game.Piece().Pivot().Y; y != 3 {
		t.Errorf("piece row = %d, expected 3 after a three tick hold", y)
	}
}

func TestEdgeActionsLastOneTick(t *testing.T) {
	game := tetris.New(tetris.VariantClassic)
	m := NewModel(game, testRuntime())
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = ticks(t, m, 3)

	if x := game.Piece().Pivot().X; x != 4 {
		t.Errorf("pivot x = %d, expected a single step to 4", x)
	}
}

func TestRecordingAndPlayback(t *testing.T) {
	game := tetris.New(tetris.VariantStrict)
	m := NewModel(game, testRuntime(), WithRecording("bob"))
	m.Init()

	for i := range 400 {
		switch i % 5 {
		case 0:
			m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
		case 2:
			m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
		case 3:
			m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
		}
		m = update(t, m, TickMsg{})
	}

	rec := m.Recording()
	if rec == nil {
		t.Fatal("Recording() = nil")
	}
	if rec.Ticks() != 400 || rec.Player != "bob" || rec.GameID != tetris.IDStrict {
		t.Fatalf("recording = %d ticks, player %q, game %q", rec.Ticks(), rec.Player, rec.GameID)
	}
	if !replay.Frame(rec.Inputs[0]).Has(core.ActionLeft) {
		t.Error("first tick should carry the left press")
	}

	res, err := replay.Run(context.Background(), rec, nil)
	if err != nil {
		t.Fatalf("replay.Run() failed: %v", err)
	}
	if res.Final != game.Snapshot() {
		t.Errorf("headless replay diverged:\n%+v\n%+v", res.Final, game.Snapshot())
	}

	// Terminal playback ignores the keyboard
	replayed, err := rec.NewGame()
	if err != nil {
		t.Fatal(err)
	}
	pm := NewModel(replayed, rec.RuntimeConfig(80, 24), WithPlayback(replay.NewPlayback(rec)))
	pm.Init()
	pm = update(t, pm, tea.KeyMsg{Type: tea.KeyRight})
	pm = ticks(t, pm, 410)

	if replayed.Snapshot() != game.Snapshot() {
		t.Errorf("terminal playback diverged:\n%+v\n%+v", replayed.Snapshot(), game.Snapshot())
	}
	if !strings.Contains(pm.View(), "REPLAY FINISHED") {
		t.Error("finished playback should say so")
	}
}

func TestSmallWindowTicksNotRecorded(t *testing.T) {
	game := tetris.New(tetris.VariantClassic)
	cfg := testRuntime()
	cfg.ScreenW, cfg.ScreenH = 20, 10
	m := NewModel(game, cfg, WithRecording(""))
	m.Init()

	m = ticks(t, m, 50)
	if m.Recording() != nil {
		t.Error("ticks while the window is too small must not be recorded")
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = ticks(t, m, 5)
	if rec := m.Recording(); rec == nil || rec.Ticks() != 5 {
		t.Errorf("expected 5 recorded ticks after resize, got %v", rec)
	}
}

func TestBackToMenuOnlyWhenPaused(t *testing.T) {
	m := NewModel(tetris.New(tetris.VariantClassic), testRuntime(), WithBackToMenu())
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("esc while playing should be ignored")
	}

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("esc while paused should go back to the menu")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(tetris.New(tetris.VariantClassic), testRuntime())
	m.Init()

	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "Score")
	s.DrawTextColored(0, 1, "██", core.ColorRed)

	out := RenderScreen(s)
	if !strings.Contains(out, "Score") || !strings.Contains(out, "██") {
		t.Errorf("RenderScreen() = %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should emit one line per row, got %q", out)
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(testRuntime(), true)

	if len(m.items) < 3 {
		t.Fatalf("menu has %d items, expected both variants and recordings", len(m.items))
	}
	if last := m.items[len(m.items)-1]; last.Kind != MenuItemRecordings {
		t.Errorf("last item = %+v, expected recordings", last)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.(MenuModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	menu := next.(MenuModel)

	if cmd == nil || menu.Selected() == nil {
		t.Fatal("enter should select an item")
	}
	if menu.Selected().GameID != tetris.IDStrict {
		t.Errorf("selected %q, expected %q", menu.Selected().GameID, tetris.IDStrict)
	}
	if !strings.Contains(NewMenuModel(testRuntime(), false).View(), "Tetris") {
		t.Error("menu view should list the games")
	}
}

type fakeLister struct {
	infos   []storage.RecordingInfo
	deleted []uuid.UUID
}

func (f *fakeLister) Recordings(int) ([]storage.RecordingInfo, error) {
	return f.infos, nil
}

func (f *fakeLister) DeleteRecording(id uuid.UUID) error {
	for i, info := range f.infos {
		if info.ID == id {
			f.infos = append(f.infos[:i], f.infos[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("missing")
}

func TestRecordingsModel(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	lister := &fakeLister{infos: []storage.RecordingInfo{
		{ID: first, GameID: tetris.IDClassic, Ticks: 600, TickRate: 60},
		{ID: second, GameID: tetris.IDStrict, Player: "ann", FinalScore: 12},
	}}
	m := NewRecordingsModel(lister, 100, 30)

	if !strings.Contains(m.View(), first.String()[:8]) {
		t.Error("view should list the short recording id")
	}

	next, _ := m.Update(runeKey('x'))
	m = next.(RecordingsModel)
	if len(lister.deleted) != 1 || lister.deleted[0] != first {
		t.Fatalf("deleted = %v, expected the first recording", lister.deleted)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(RecordingsModel)
	if m.Selected() == nil || *m.Selected() != second {
		t.Errorf("Selected() = %v, expected %s", m.Selected(), second)
	}
}
