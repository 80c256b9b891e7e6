// Package render draws the pieces of the client roster screen.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/errors"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
)

const (
	checkboxWidth        = 3
	cursorWidth          = 2
	spacesBetweenColumns = 2
	minFlexWidth         = 10
	fieldLabelWidth      = 14
	ellipsis             = "..."
)

// Column is one roster column and its width in cells. Flex columns absorb
// the space left over by the fixed ones.
type Column struct {
	Key   domain.Column
	Width int
	Flex  bool
}

// Columns are the roster columns in display order.
var Columns = []Column{
	{Key: domain.ColumnName, Width: 22, Flex: true},
	{Key: domain.ColumnEmail, Width: 26},
	{Key: domain.ColumnPhone, Width: 17},
	{Key: domain.ColumnCompany, Width: 20},
	{Key: domain.ColumnStatus, Width: 11},
	{Key: domain.ColumnCreatedAt, Width: 17},
}

// HeaderState defines the inputs needed to render the column header.
type HeaderState struct {
	Localizer      *i18n.Localizer
	SortColumn     domain.Column
	SortOrder      domain.SortOrder
	AllSelected    bool
	PartlySelected bool
	Width          int
}

// RowState defines the inputs needed to render a client row.
type RowState struct {
	Client    domain.Client
	Localizer *i18n.Localizer
	Checked   bool
	Cursor    bool
	Width     int
}

// FooterState defines the inputs needed to render the footer.
type FooterState struct {
	Localizer     *i18n.Localizer
	Help          string
	SearchMode    bool
	SearchView    string
	Query         string
	Loading       bool
	SelectedCount int
	Visible       int
	Total         int
	Message       string
	MessageType   errors.MessageType
	Width         int
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color(ansiColorNumber(colors.Blue))).Foreground(lipgloss.Color("0"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	bannerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color(ansiColorNumber(colors.Yellow)))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// Checkbox renders a tri-state selection box.
func Checkbox(checked, partial bool) string {
	switch {
	case checked:
		return "[x]"
	case partial:
		return "[-]"
	default:
		return "[ ]"
	}
}

// Title renders the screen title with an optional right-hand note.
func Title(text, note string, width int) string {
	if note == "" {
		return titleStyle.Render(text)
	}
	gap := width - lipgloss.Width(text) - lipgloss.Width(note)
	if gap < 2 {
		gap = 2
	}
	return titleStyle.Render(text) + strings.Repeat(" ", gap) + mutedStyle.Render(note)
}

// Banner renders the offline notice across the full width.
func Banner(text string, width int) string {
	if text == "" {
		return ""
	}
	if width > 0 {
		text = truncate(text, width)
		return bannerStyle.Width(width).Render(text)
	}
	return bannerStyle.Render(text)
}

// Header renders the column header. The active sort column carries an arrow.
func Header(state HeaderState) string {
	widths := columnWidths(state.Width)
	cells := make([]string, 0, len(Columns))
	for i, col := range Columns {
		label := state.Localizer.Column(col.Key)
		if state.SortColumn != "" && state.SortColumn == col.Key {
			label += " " + i18n.SortIndicator(state.SortOrder)
		}
		cells = append(cells, pad(label, widths[i]))
	}
	line := strings.Repeat(" ", cursorWidth) +
		Checkbox(state.AllSelected, state.PartlySelected) + " " +
		strings.Join(cells, strings.Repeat(" ", spacesBetweenColumns))
	return headerStyle.Render(strings.TrimRight(line, " "))
}

// Row renders a single client row.
func Row(state RowState) string {
	widths := columnWidths(state.Width)
	loc := state.Localizer
	c := state.Client
	values := map[domain.Column]string{
		domain.ColumnName:      c.Name,
		domain.ColumnEmail:     orDash(c.Email),
		domain.ColumnPhone:     orDash(c.Phone),
		domain.ColumnCompany:   orDash(c.Company),
		domain.ColumnStatus:    loc.Status(c.EffectiveStatus()),
		domain.ColumnCreatedAt: loc.Date(c.CreatedAt),
	}

	cells := make([]string, 0, len(Columns))
	for i, col := range Columns {
		cells = append(cells, pad(oneLine(values[col.Key]), widths[i]))
	}

	pointer := "  "
	if state.Cursor {
		pointer = "> "
	}
	box := Checkbox(state.Checked, false)
	if state.Checked && !state.Cursor {
		box = checkedStyle.Render(box)
	}
	line := pointer + box + " " + strings.TrimRight(strings.Join(cells, strings.Repeat(" ", spacesBetweenColumns)), " ")
	if state.Cursor {
		return cursorStyle.Render(line)
	}
	return line
}

// Empty renders the placeholder shown when no client matches.
func Empty(text string) string {
	return mutedStyle.Render(text)
}

// Footer renders the search line, counters, status message and key help.
func Footer(state FooterState) string {
	loc := state.Localizer
	var lines []string

	search := loc.T("list.search") + ": " + state.Query
	if state.SearchMode && state.SearchView != "" {
		search = state.SearchView
	}
	counts := loc.T("list.count", state.Visible, state.Total)
	if state.SelectedCount > 0 {
		counts += "  " + loc.T("list.selected", state.SelectedCount)
	}
	if state.Loading {
		counts += "  " + loc.T("list.loading")
	}
	lines = append(lines, Title(search, counts, state.Width))

	if state.Message != "" {
		lines = append(lines, StatusLine(state.Message, state.MessageType))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, helpStyle.Render(truncateIfWide(state.Help, state.Width)))
	return strings.Join(lines, "\n")
}

// StatusLine renders a status message colored by its type.
func StatusLine(text string, kind errors.MessageType) string {
	color := colors.Blue
	prefix := ""
	switch kind {
	case errors.MessageTypeError:
		color = colors.Red
		prefix = "✗ "
	case errors.MessageTypeWarning:
		color = colors.Yellow
		prefix = "⚠ "
	case errors.MessageTypeSuccess:
		color = colors.Green
		prefix = "✓ "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(color))).Render(prefix + text)
}

// Field renders one labeled form input with its validation message.
func Field(label, input, problem string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
	}
	line := marker + pad(label, fieldLabelWidth) + " " + input
	if problem != "" {
		line += "\n" + strings.Repeat(" ", cursorWidth+fieldLabelWidth+1) + StatusLine(problem, errors.MessageTypeError)
	}
	return line
}

// Help renders muted key help.
func Help(text string) string {
	return helpStyle.Render(text)
}

func columnWidths(width int) []int {
	widths := make([]int, len(Columns))
	fixed := cursorWidth + checkboxWidth + 1
	flex := -1
	for i, col := range Columns {
		widths[i] = col.Width
		fixed += col.Width
		if i > 0 {
			fixed += spacesBetweenColumns
		}
		if col.Flex {
			flex = i
		}
	}
	if width <= 0 || flex < 0 {
		return widths
	}
	extra := width - fixed
	widths[flex] += extra
	if widths[flex] < minFlexWidth {
		widths[flex] = minFlexWidth
	}
	return widths
}

func pad(s string, width int) string {
	s = truncate(s, width)
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width < len(ellipsis) {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, ellipsis)
}

func truncateIfWide(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate(s, width)
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(seq string) string {
	if len(seq) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(seq, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return seq[lastSemicolon+1 : len(seq)-1]
}
