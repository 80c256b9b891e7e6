// Package formatter provides template parsing, variable resolution, and preset management
// for rendering clients and push journal entries with user supplied templates.
package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/journal"
)

// Kind names the record type a template is rendered against.
type Kind string

const (
	// KindClient templates render domain.Client records.
	KindClient Kind = "client"
	// KindEntry templates render journal entries.
	KindEntry Kind = "entry"
)

// ClientVariables lists the variables available to client templates.
var ClientVariables = []string{
	"id", "name", "email", "phone", "company", "status", "created-at", "updated-at",
}

// EntryVariables lists the variables available to journal entry templates.
var EntryVariables = []string{
	"id", "dispatched-at", "title", "message", "recipients", "recipient-count",
	"sent-count", "success", "mode", "outcome",
}

// Variables returns the variable names for kind.
func Variables(kind Kind) []string {
	switch kind {
	case KindClient:
		return ClientVariables
	case KindEntry:
		return EntryVariables
	default:
		return nil
	}
}

// VariableContext contains all data needed for template variable resolution.
type VariableContext struct {
	Kind   Kind
	Client domain.Client
	Entry  journal.Entry
}

// ClientContext builds a context for a client record.
func ClientContext(c domain.Client) VariableContext {
	return VariableContext{Kind: KindClient, Client: c}
}

// EntryContext builds a context for a journal entry.
func EntryContext(e journal.Entry) VariableContext {
	return VariableContext{Kind: KindEntry, Entry: e}
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	// Resolve returns the string value for a given variable name and context.
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

// Resolve returns the string value for a variable from the context.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	var (
		value string
		ok    bool
	)
	switch ctx.Kind {
	case KindClient:
		value, ok = resolveClient(varName, ctx.Client)
	case KindEntry:
		value, ok = resolveEntry(varName, ctx.Entry)
	default:
		return "", fmt.Errorf("unknown template kind: %q", ctx.Kind)
	}
	if !ok {
		return "", fmt.Errorf("unknown variable: %s (available: %s)", varName, strings.Join(Variables(ctx.Kind), ", "))
	}
	return value, nil
}

func resolveClient(varName string, c domain.Client) (string, bool) {
	switch varName {
	case "id":
		return c.ID.String(), true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "company":
		return c.Company, true
	case "status":
		// Records without a status read as active.
		return c.EffectiveStatus().String(), true
	case "created-at":
		return c.CreatedAt, true
	case "updated-at":
		return c.UpdatedAt, true
	default:
		return "", false
	}
}

func resolveEntry(varName string, e journal.Entry) (string, bool) {
	switch varName {
	case "id":
		return strconv.FormatInt(e.ID, 10), true
	case "dispatched-at":
		return domain.FormatTimestamp(e.DispatchedAt), true
	case "title":
		return e.Title, true
	case "message":
		return e.Message, true
	case "recipients":
		ids := make([]string, len(e.ClientIDs))
		for i, id := range e.ClientIDs {
			ids[i] = id.String()
		}
		return strings.Join(ids, ","), true
	case "recipient-count":
		return strconv.Itoa(len(e.ClientIDs)), true
	case "sent-count":
		return strconv.Itoa(e.SentCount), true
	case "success":
		return strconv.FormatBool(e.Success), true
	case "mode":
		return e.Mode, true
	case "outcome":
		return e.OutcomeMessage, true
	default:
		return "", false
	}
}
