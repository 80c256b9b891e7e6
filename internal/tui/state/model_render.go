package state

import (
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	width := m.uiState.GetWidth()
	if m.form != nil {
		return m.formView()
	}

	var s strings.Builder
	s.WriteString(render.Title(m.loc.T("app.title"), m.user, width))
	s.WriteString("\n")
	if m.roster.Offline() {
		s.WriteString(render.Banner(m.loc.T("banner.offline"), width))
	}
	s.WriteString("\n")
	s.WriteString(render.Header(render.HeaderState{
		Localizer:      m.loc,
		SortColumn:     m.roster.SortColumn(),
		SortOrder:      m.roster.SortOrder(),
		AllSelected:    m.roster.IsAllSelected(),
		PartlySelected: m.roster.IsPartiallySelected(),
		Width:          width,
	}))
	s.WriteString("\n")
	s.WriteString(m.uiState.GetViewport().View())
	s.WriteString("\n")
	s.WriteString(render.Footer(render.FooterState{
		Localizer:     m.loc,
		Help:          m.loc.T("tui.help"),
		SearchMode:    m.uiState.GetMode() == ModeSearch,
		SearchView:    m.loc.T("list.search") + ": " + m.search.View(),
		Query:         m.roster.Query(),
		Loading:       m.roster.Loading(),
		SelectedCount: len(m.roster.Selected()),
		Visible:       len(m.roster.Projected()),
		Total:         len(m.roster.All()),
		Message:       m.statusMessage,
		MessageType:   m.statusMessageType,
		Width:         width,
	}))
	return s.String()
}

func (m *Model) formView() string {
	busy := ""
	if m.busy {
		busy = m.loc.T("tui.saving")
		if m.uiState.GetMode() == ModePush {
			busy = m.loc.T("tui.sending")
		}
	}
	view := m.form.view(busy)
	if m.statusMessage != "" {
		view += "\n\n" + render.StatusLine(m.statusMessage, m.statusMessageType)
	}
	return view
}

// updateViewportContent redraws the rows of the current projection.
func (m *Model) updateViewportContent() {
	projected := m.roster.Projected()
	if len(projected) == 0 {
		m.uiState.GetViewport().SetContent(render.Empty(m.loc.T("list.empty")))
		return
	}

	width := m.uiState.GetWidth()
	cursor := m.uiState.GetCursor()
	var content strings.Builder
	for i, c := range projected {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(render.Row(render.RowState{
			Client:    c,
			Localizer: m.loc,
			Checked:   m.roster.IsSelected(c.ID),
			Cursor:    i == cursor,
			Width:     width,
		}))
	}
	m.uiState.GetViewport().SetContent(content.String())
}
