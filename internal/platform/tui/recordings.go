package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockfall/internal/storage"
)

const maxRecordings = 100

// RecordingLister is the part of the store the recordings browser needs.
type RecordingLister interface {
	Recordings(limit int) ([]storage.RecordingInfo, error)
	DeleteRecording(id uuid.UUID) error
}

// RecordingsModel is the Bubble Tea model for browsing saved sessions.
type RecordingsModel struct {
	store     RecordingLister
	infos     []storage.RecordingInfo
	loadErr   error
	table     table.Model
	help      help.Model
	keyMapper *KeyMapper
	width     int
	height    int
	quitting  bool
	goingBack bool
	selected  *uuid.UUID
}

// NewRecordingsModel creates a new recordings browser.
func NewRecordingsModel(store RecordingLister, width, height int) RecordingsModel {
	h := help.New()
	h.Width = width

	m := RecordingsModel{
		store:     store,
		help:      h,
		keyMapper: NewKeyMapper(),
		width:     width,
		height:    height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *RecordingsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Game", Width: 14},
		{Title: "Player", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "Length", Width: 8},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load refreshes the listing from the store.
func (m *RecordingsModel) load() {
	m.infos, m.loadErr = nil, nil
	if m.store != nil {
		m.infos, m.loadErr = m.store.Recordings(maxRecordings)
	}
	m.updateTableRows()
}

func (m *RecordingsModel) updateTableRows() {
	rows := make([]table.Row, len(m.infos))
	for i, info := range m.infos {
		player := info.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			info.ID.String()[:8],
			info.GameID,
			player,
			fmt.Sprintf("%d", info.FinalScore),
			info.Duration().Round(time.Second).String(),
			info.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the recordings model.
func (m RecordingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the recordings browser.
func (m RecordingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit

		case MenuActionBack:
			m.goingBack = true
			return m, tea.Quit

		case MenuActionSelect:
			if cur := m.table.Cursor(); cur >= 0 && cur < len(m.infos) {
				id := m.infos[cur].ID
				m.selected = &id
				return m, tea.Quit
			}
			return m, nil

		case MenuActionDelete:
			if cur := m.table.Cursor(); cur >= 0 && cur < len(m.infos) && m.store != nil {
				if err := m.store.DeleteRecording(m.infos[cur].ID); err != nil {
					m.loadErr = err
					return m, nil
				}
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the recordings browser.
func (m RecordingsModel) View() string {
	if m.quitting || m.goingBack || m.selected != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(menuTitleStyle.Render("RECORDINGS"), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		b.WriteString(errStyle.Render(m.loadErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Menu)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m RecordingsModel) renderTableContent() string {
	if len(m.infos) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No recordings yet.\nPlay with --record to capture a session.")
	}
	return m.table.View()
}

// Selected returns the recording chosen for playback, or nil.
func (m RecordingsModel) Selected() *uuid.UUID { return m.selected }

// IsGoingBack returns true if user wants to go back to menu.
func (m RecordingsModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting returns true if user wants to quit entirely.
func (m RecordingsModel) IsQuitting() bool { return m.quitting }

// RecordingsResult holds the outcome of the recordings browser.
type RecordingsResult struct {
	Selected *uuid.UUID
	Back     bool
}

// RunRecordings runs the recordings browser.
func RunRecordings(store RecordingLister, width, height int) (RecordingsResult, error) {
	p := tea.NewProgram(
		NewRecordingsModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return RecordingsResult{}, fmt.Errorf("tui: %w", err)
	}

	m, ok := finalModel.(RecordingsModel)
	if !ok {
		return RecordingsResult{}, nil
	}
	return RecordingsResult{Selected: m.Selected(), Back: m.IsGoingBack()}, nil
}
