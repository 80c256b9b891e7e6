package state

import (
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/tui/render"
)

// formField is one labeled input. key matches the field name used by
// domain validation errors.
type formField struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs with one focused field.
type form struct {
	heading  string
	help     string
	fields   []formField
	focus    int
	problems map[string]string
}

func newField(key, label string, limit int, placeholder string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Placeholder = placeholder
	ti.Width = 48
	return formField{key: key, label: label, input: ti}
}

func newForm(heading, help string, fields ...formField) *form {
	f := &form{heading: heading, help: help, fields: fields, problems: map[string]string{}}
	f.setFocus(0)
	return f
}

func newPushForm(loc *i18n.Localizer, recipients int) *form {
	return newForm(
		loc.T("tui.push_heading", recipients),
		loc.T("tui.push_help"),
		newField("title", loc.T("push.title"), domain.TitleMaxLength, ""),
		newField("message", loc.T("push.message"), domain.MessageMaxLength, ""),
	)
}

func newCreateForm(loc *i18n.Localizer) *form {
	return newForm(
		loc.T("tui.create_heading"),
		loc.T("tui.create_help"),
		newField("name", loc.Column(domain.ColumnName), domain.NameMaxLength, ""),
		newField("email", loc.Column(domain.ColumnEmail), domain.EmailMaxLength, "user@example.com"),
		newField("phone", loc.Column(domain.ColumnPhone), domain.PhoneMaxLength, "+7 (999) 123-45-67"),
		newField("company", loc.Column(domain.ColumnCompany), domain.CompanyMaxLength, ""),
		newField("status", loc.Column(domain.ColumnStatus), 16, "active | inactive | pending"),
	)
}

func (f *form) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for idx := range f.fields {
		if idx == f.focus {
			cmd = f.fields[idx].input.Focus()
		} else {
			f.fields[idx].input.Blur()
		}
	}
	return cmd
}

func (f *form) focusNext() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) focusPrev() tea.Cmd { return f.setFocus(f.focus - 1) }

func (f *form) value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return field.input.Value()
		}
	}
	return ""
}

// update forwards msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// showProblems attaches validation failures to their fields. It reports
// false when err is not a validation error.
func (f *form) showProblems(err error, loc *i18n.Localizer) bool {
	f.problems = map[string]string{}
	var verr *domain.ValidationError
	if !stderrors.As(err, &verr) {
		return false
	}
	for _, fe := range verr.Fields {
		if _, seen := f.problems[fe.Field]; !seen {
			f.problems[fe.Field] = loc.FieldError(fe)
		}
	}
	for i, field := range f.fields {
		if _, bad := f.problems[field.key]; bad {
			f.setFocus(i)
			break
		}
	}
	return true
}

func (f *form) clearProblems() {
	f.problems = map[string]string{}
}

func (f *form) view(busy string) string {
	var s strings.Builder
	s.WriteString(render.Title(f.heading, busy, 0))
	s.WriteString("\n\n")
	for i, field := range f.fields {
		s.WriteString(render.Field(field.label, field.input.View(), f.problems[field.key], i == f.focus))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(render.Help(f.help))
	return s.String()
}
