package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/journal"
	"github.com/goccy/go-json"
)

// SimpleFormatter prints one line per record.
type SimpleFormatter struct {
	loc *i18n.Localizer
}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter(loc *i18n.Localizer) *SimpleFormatter {
	return &SimpleFormatter{loc: loc}
}

// FormatClients prints id, name, email and status.
func (f *SimpleFormatter) FormatClients(clients []domain.Client, writer io.Writer) error {
	for _, c := range clients {
		_, err := fmt.Fprintf(writer, "%-14s  %s  <%s>  [%s]\n",
			c.ID, truncate(oneLine(c.Name), 40), orDash(c.Email), f.loc.Status(c.EffectiveStatus()))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatDispatches prints time, mode, recipient count and title.
func (f *SimpleFormatter) FormatDispatches(entries []journal.Entry, writer io.Writer) error {
	for _, e := range entries {
		mark := "ok"
		if !e.Success {
			mark = "failed"
		}
		_, err := fmt.Fprintf(writer, "%-4d  %s  %-7s  %-6s  %d/%d  %s\n",
			e.ID, e.DispatchedAt.Local().Format("2006-01-02 15:04:05"), e.Mode, mark,
			e.SentCount, len(e.ClientIDs), truncate(oneLine(e.Title), 50))
		if err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter prints only names or titles.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatClients prints client names, one per line.
func (f *CompactFormatter) FormatClients(clients []domain.Client, writer io.Writer) error {
	for _, c := range clients {
		if _, err := fmt.Fprintln(writer, oneLine(c.Name)); err != nil {
			return err
		}
	}
	return nil
}

// FormatDispatches prints dispatch titles, one per line.
func (f *CompactFormatter) FormatDispatches(entries []journal.Entry, writer io.Writer) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(writer, truncate(oneLine(e.Title), 60)); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter prints records as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatClients writes clients as a JSON array.
func (f *JSONFormatter) FormatClients(clients []domain.Client, writer io.Writer) error {
	if clients == nil {
		clients = []domain.Client{}
	}
	return writeJSON(writer, clients, "clients")
}

// FormatDispatches writes entries as a JSON array.
func (f *JSONFormatter) FormatDispatches(entries []journal.Entry, writer io.Writer) error {
	if entries == nil {
		entries = []journal.Entry{}
	}
	return writeJSON(writer, entries, "journal entries")
}

func writeJSON(writer io.Writer, v any, what string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s to JSON: %w", what, err)
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer)
	return err
}

// TableColumn is one table column.
type TableColumn[T any] struct {
	Name      string
	Width     int
	Alignment string
	Value     func(T) string
}

// TableFormatter prints records under colored headers.
type TableFormatter struct {
	loc           *i18n.Localizer
	headerColor   string
	clientColumns []TableColumn[domain.Client]
	entryColumns  []TableColumn[journal.Entry]
}

// NewTableFormatter creates a TableFormatter with the default columns.
func NewTableFormatter(loc *i18n.Localizer) *TableFormatter {
	f := &TableFormatter{loc: loc, headerColor: colors.Blue}
	f.clientColumns = []TableColumn[domain.Client]{
		{Name: "ID", Width: 14, Alignment: "right", Value: func(c domain.Client) string { return c.ID.String() }},
		{Name: loc.Column(domain.ColumnName), Width: 24, Value: func(c domain.Client) string { return c.Name }},
		{Name: loc.Column(domain.ColumnEmail), Width: 28, Value: func(c domain.Client) string { return orDash(c.Email) }},
		{Name: loc.Column(domain.ColumnPhone), Width: 18, Value: func(c domain.Client) string { return orDash(c.Phone) }},
		{Name: loc.Column(domain.ColumnCompany), Width: 22, Value: func(c domain.Client) string { return orDash(c.Company) }},
		{Name: loc.Column(domain.ColumnStatus), Width: 11, Value: func(c domain.Client) string { return loc.Status(c.EffectiveStatus()) }},
		{Name: loc.Column(domain.ColumnCreatedAt), Width: 18, Value: func(c domain.Client) string { return loc.Date(c.CreatedAt) }},
	}
	f.entryColumns = []TableColumn[journal.Entry]{
		{Name: "ID", Width: 4, Alignment: "right", Value: func(e journal.Entry) string { return strconv.FormatInt(e.ID, 10) }},
		{Name: "DATE", Width: 19, Value: func(e journal.Entry) string { return e.DispatchedAt.Local().Format("2006-01-02 15:04:05") }},
		{Name: "MODE", Width: 7, Value: func(e journal.Entry) string { return e.Mode }},
		{Name: "SENT", Width: 7, Alignment: "right", Value: func(e journal.Entry) string {
			return fmt.Sprintf("%d/%d", e.SentCount, len(e.ClientIDs))
		}},
		{Name: loc.T("push.title"), Width: 32, Value: func(e journal.Entry) string { return e.Title }},
		{Name: "RESULT", Width: 30, Value: func(e journal.Entry) string {
			if e.OutcomeMessage != "" {
				return e.OutcomeMessage
			}
			if e.Success {
				return "ok"
			}
			return "failed"
		}},
	}
	return f
}

// FormatClients renders the client table. An empty roster prints nothing.
func (f *TableFormatter) FormatClients(clients []domain.Client, writer io.Writer) error {
	return writeTable(writer, f.headerColor, f.clientColumns, clients)
}

// FormatDispatches renders the journal table.
func (f *TableFormatter) FormatDispatches(entries []journal.Entry, writer io.Writer) error {
	return writeTable(writer, f.headerColor, f.entryColumns, entries)
}

func writeTable[T any](writer io.Writer, headerColor string, columns []TableColumn[T], rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, len(columns))
	separators := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = pad(col.Name, col.Width, "left")
		separators[i] = strings.Repeat("-", col.Width)
	}
	if _, err := fmt.Fprintf(writer, "%s%s%s\n", headerColor, strings.Join(headers, "  "), colors.Reset); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%s%s%s\n", headerColor, strings.Join(separators, "  "), colors.Reset); err != nil {
		return err
	}

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = pad(oneLine(col.Value(row)), col.Width, col.Alignment)
		}
		if _, err := fmt.Fprintln(writer, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}
