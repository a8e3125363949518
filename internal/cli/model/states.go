// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/dockwork/internal/cli/styles"
	"github.com/bnema/dockwork/internal/domain/repository"
)

const (
	statesTableWidth  = 70
	statesTableHeight = 12
)

// StatesModel is the Bubble Tea model for the interactive state browser.
type StatesModel struct {
	help  help.Model
	keys  statesKeyMap
	table table.Model

	states        []repository.StateInfo
	err           error
	statusMessage string
	width         int

	ctx   context.Context
	repo  repository.StateRepository
	theme *styles.Theme
}

// statesKeyMap defines keybindings for the state browser.
type statesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k statesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Delete, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k statesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Delete, k.Refresh},
		{k.Help, k.Quit},
	}
}

func defaultStatesKeyMap() statesKeyMap {
	return statesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStatesModel creates the state browser model.
func NewStatesModel(ctx context.Context, theme *styles.Theme, repo repository.StateRepository) *StatesModel {
	return &StatesModel{
		help:  help.New(),
		keys:  defaultStatesKeyMap(),
		table: styles.NewStyledTable(theme, styles.StatesTableColumns(), nil, statesTableWidth, statesTableHeight),
		ctx:   ctx,
		repo:  repo,
		theme: theme,
	}
}

type statesLoadedMsg struct {
	states []repository.StateInfo
}

type statesErrMsg struct {
	err error
}

type stateDeletedMsg struct {
	id string
}

// Init loads the state list.
func (m *StatesModel) Init() tea.Cmd {
	return m.loadStates
}

func (m *StatesModel) loadStates() tea.Msg {
	states, err := m.repo.ListStates(m.ctx)
	if err != nil {
		return statesErrMsg{err: err}
	}
	return statesLoadedMsg{states: states}
}

func (m *StatesModel) deleteState(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.repo.DeleteSnapshot(m.ctx, id); err != nil {
			return statesErrMsg{err: err}
		}
		return stateDeletedMsg{id: id}
	}
}

// Update handles messages.
func (m *StatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case statesLoadedMsg:
		m.states = msg.states
		m.err = nil
		m.table.SetRows(m.stateRows())
		return m, nil

	case statesErrMsg:
		m.err = msg.err
		return m, nil

	case stateDeletedMsg:
		m.statusMessage = fmt.Sprintf("Deleted state %q", msg.id)
		return m, m.loadStates

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.statusMessage = ""
			return m, m.loadStates
		case key.Matches(msg, m.keys.Delete):
			if info, ok := m.selectedState(); ok {
				return m, m.deleteState(info.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *StatesModel) selectedState() (repository.StateInfo, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.states) {
		return repository.StateInfo{}, false
	}
	return m.states[idx], true
}

func (m *StatesModel) stateRows() []table.Row {
	rows := make([]table.Row, 0, len(m.states))
	for _, info := range m.states {
		rows = append(rows, table.Row{
			info.ID,
			fmt.Sprintf("%d", info.WorkspaceCount),
			fmt.Sprintf("%d", info.WindowCount),
			info.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

// View renders the state browser.
func (m *StatesModel) View() string {
	title := m.theme.Title.Render("Saved Workspace States")

	var body string
	switch {
	case m.err != nil:
		body = m.theme.ErrorStyle.Render("Error: " + m.err.Error())
	case len(m.states) == 0:
		body = m.theme.Subtle.Render("No saved states found.")
	default:
		body = m.table.View()
	}

	sections := []string{title, "", body}
	if m.statusMessage != "" {
		sections = append(sections, m.theme.SuccessStyle.Render(m.statusMessage))
	}
	sections = append(sections, "", m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
