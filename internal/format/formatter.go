// Package format provides output formatting functionality for CLI commands.
// It renders client rosters and the push journal in several styles.
package format

import (
	"io"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/journal"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatClients writes a client roster.
	FormatClients(clients []domain.Client, writer io.Writer) error

	// FormatDispatches writes journal entries.
	FormatDispatches(entries []journal.Entry, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple displays one line per record.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable displays records in a table with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact displays only names or titles.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays records as JSON.
	FormatterTypeJSON FormatterType = "json"
)

// Types lists the accepted formatter names.
var Types = []FormatterType{FormatterTypeSimple, FormatterTypeTable, FormatterTypeCompact, FormatterTypeJSON}

// NewFormatter creates a new formatter of the specified type. Labels are
// rendered with loc; a nil loc uses English.
func NewFormatter(formatterType FormatterType, loc *i18n.Localizer) Formatter {
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter(loc)
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter(loc)
	}
}

// GetFormatter resolves a formatter by name. Unknown names give the simple formatter.
func GetFormatter(name string, loc *i18n.Localizer) Formatter {
	return NewFormatter(FormatterType(name), loc)
}

// IsValidType reports whether name is one of Types.
func IsValidType(name string) bool {
	for _, t := range Types {
		if string(t) == name {
			return true
		}
	}
	return false
}
