package formatter

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/journal"
)

// TemplateEngine provides template parsing and variable substitution.
type TemplateEngine interface {
	// Parse returns a list of variables found in the template.
	Parse(template string) ([]string, error)

	// Substitute replaces variables in the template with values from the context.
	Substitute(template string, ctx VariableContext) (string, error)

	// ValidateTemplate checks syntax and that every variable exists for kind.
	ValidateTemplate(template string, kind Kind) error
}

type templateEngine struct {
	variablePattern *regexp.Regexp
	resolver        VariableResolver
}

// NewTemplateEngine creates a new template engine instance.
func NewTemplateEngine() TemplateEngine {
	return &templateEngine{
		variablePattern: regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`),
		resolver:        NewVariableResolver(),
	}
}

// Parse identifies all variables in a template string using {{variable-name}} syntax.
// Returns a list of variable names found, without duplicates.
func (te *templateEngine) Parse(template string) ([]string, error) {
	variables := []string{}
	if template == "" {
		return variables, nil
	}

	seen := make(map[string]bool)
	for _, match := range te.variablePattern.FindAllStringSubmatch(template, -1) {
		if !seen[match[1]] {
			variables = append(variables, match[1])
			seen[match[1]] = true
		}
	}
	return variables, nil
}

// Substitute replaces all variables in the template with values from the context.
// Values are inserted verbatim and never re-expanded.
func (te *templateEngine) Substitute(template string, ctx VariableContext) (string, error) {
	if template == "" {
		return "", nil
	}

	var resolveErr error
	result := te.variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		if resolveErr != nil {
			return ""
		}
		value, err := te.resolver.Resolve(te.variablePattern.FindStringSubmatch(match)[1], ctx)
		if err != nil {
			resolveErr = err
			return ""
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return result, nil
}

// ValidateTemplate checks if a template has valid syntax and known variables.
func (te *templateEngine) ValidateTemplate(template string, kind Kind) error {
	if template == "" {
		return nil
	}

	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", openCount, closeCount)
	}
	if found := len(te.variablePattern.FindAllString(template, -1)); found != openCount {
		return fmt.Errorf("invalid variable name: use lowercase letters, digits and '-' inside {{ }}")
	}

	variables, err := te.Parse(template)
	if err != nil {
		return err
	}
	known := Variables(kind)
	for _, name := range variables {
		if !slices.Contains(known, name) {
			return fmt.Errorf("unknown variable: %s (available: %s)", name, strings.Join(known, ", "))
		}
	}
	return nil
}

// RenderClients writes one rendered line per client.
func RenderClients(writer io.Writer, template string, clients []domain.Client) error {
	engine := NewTemplateEngine()
	if err := engine.ValidateTemplate(template, KindClient); err != nil {
		return err
	}
	for _, c := range clients {
		line, err := engine.Substitute(template, ClientContext(c))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderEntries writes one rendered line per journal entry.
func RenderEntries(writer io.Writer, template string, entries []journal.Entry) error {
	engine := NewTemplateEngine()
	if err := engine.ValidateTemplate(template, KindEntry); err != nil {
		return err
	}
	for _, e := range entries {
		line, err := engine.Substitute(template, EntryContext(e))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}
