package state

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/errors"
	"github.com/cristianoliveira/pushdesk/internal/tui/render"
)

// handleKeyMsg routes keyboard input by mode. Ctrl+C always quits.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	switch m.uiState.GetMode() {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModePush, ModeCreate:
		return m.handleFormKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

// handleListKey handles navigation, selection and the commands of the list.
func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyPgUp:
		m.moveCursor(-m.uiState.GetViewport().Height)
		return m, nil
	case tea.KeyPgDown:
		m.moveCursor(m.uiState.GetViewport().Height)
		return m, nil
	case tea.KeyHome:
		m.moveCursorTo(0)
		return m, nil
	case tea.KeyEnd:
		m.moveCursorTo(len(m.roster.Projected()) - 1)
		return m, nil
	case tea.KeyEsc:
		if m.roster.Query() != "" {
			return m, m.applySearch("")
		}
		return m.quit()
	}

	switch key := msg.String(); key {
	case "q":
		return m.quit()
	case "j":
		m.moveCursor(1)
	case "k":
		m.moveCursor(-1)
	case "g":
		m.moveCursorTo(0)
	case "G":
		m.moveCursorTo(len(m.roster.Projected()) - 1)
	case " ", "x":
		m.toggleCurrent()
	case "a":
		m.roster.SelectAll()
		m.updateViewportContent()
	case "c":
		m.roster.ClearSelection()
		m.updateViewportContent()
	case "1", "2", "3", "4", "5", "6":
		m.sortByColumn(int(key[0] - '1'))
	case "/":
		return m, m.enterSearch()
	case "p":
		return m, m.openPushForm()
	case "n":
		return m, m.openCreateForm()
	case "r":
		return m, m.loadCmd()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.moveCursorTo(m.uiState.GetCursor() + delta)
}

func (m *Model) moveCursorTo(index int) {
	n := len(m.roster.Projected())
	m.uiState.SetCursor(index, n)
	m.uiState.EnsureCursorVisible(n)
	m.updateViewportContent()
}

func (m *Model) toggleCurrent() {
	projected := m.roster.Projected()
	cursor := m.uiState.GetCursor()
	if cursor >= len(projected) {
		return
	}
	m.roster.ToggleSelection(projected[cursor])
	m.updateViewportContent()
}

// sortByColumn applies a header click on the column at index.
func (m *Model) sortByColumn(index int) {
	if index < 0 || index >= len(render.Columns) {
		return
	}
	m.roster.SortBy(render.Columns[index].Key)
	m.clampCursor()
	m.updateViewportContent()
}

func (m *Model) enterSearch() tea.Cmd {
	m.uiState.SetMode(ModeSearch)
	m.search.SetValue(m.roster.Query())
	m.search.CursorEnd()
	return m.search.Focus()
}

// handleSearchKey edits the query. The projection follows every keystroke;
// Enter and Esc leave search mode and reload with the final query.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.applySearch(m.search.Value())
	case tea.KeyEsc:
		return m, m.applySearch("")
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.roster.Query() {
		m.roster.SetQuery(value)
		m.uiState.ResetCursor()
		m.updateViewportContent()
	}
	return m, cmd
}

func (m *Model) applySearch(query string) tea.Cmd {
	m.search.Blur()
	m.search.SetValue(query)
	m.uiState.SetMode(ModeList)
	m.roster.SetQuery(query)
	m.uiState.ResetCursor()
	m.updateViewportContent()
	return m.loadCmd()
}

// openPushForm opens the push form. Without a selection it only reports
// the problem and no request is made.
func (m *Model) openPushForm() tea.Cmd {
	targets, err := m.roster.PushTargets()
	if err != nil {
		return m.notify(errors.MessageTypeWarning, m.loc.Error(err))
	}
	m.form = newPushForm(m.loc, len(targets))
	m.uiState.SetMode(ModePush)
	return m.form.setFocus(0)
}

func (m *Model) openCreateForm() tea.Cmd {
	m.form = newCreateForm(m.loc)
	m.uiState.SetMode(ModeCreate)
	return m.form.setFocus(0)
}

// handleFormKey moves between fields, submits or cancels the open form.
func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.closeForm()
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		if !m.busy {
			m.closeForm()
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.form.focusNext()
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.form.focusPrev()
	case tea.KeyEnter:
		if m.busy {
			return m, nil
		}
		if m.uiState.GetMode() == ModePush {
			return m, m.submitPush()
		}
		return m, m.submitCreate()
	}
	if m.busy {
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m *Model) submitPush() tea.Cmd {
	title := m.form.value("title")
	message := m.form.value("message")
	if err := domain.ValidatePush(title, message); err != nil {
		m.form.showProblems(err, m.loc)
		return nil
	}
	targets, err := m.roster.PushTargets()
	if err != nil {
		m.closeForm()
		return m.notify(errors.MessageTypeWarning, m.loc.Error(err))
	}
	m.form.clearProblems()
	m.busy = true
	return m.pushCmd(targets, title, message)
}

func (m *Model) submitCreate() tea.Cmd {
	draft := domain.Draft{
		Name:    m.form.value("name"),
		Email:   m.form.value("email"),
		Phone:   m.form.value("phone"),
		Company: m.form.value("company"),
		Status:  domain.Status(strings.ToLower(strings.TrimSpace(m.form.value("status")))),
	}
	if err := draft.ValidateForm(); err != nil {
		m.form.showProblems(err, m.loc)
		return nil
	}
	m.form.clearProblems()
	m.busy = true
	return m.createCmd(draft.Normalize())
}
