package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/format"
	"github.com/cristianoliveira/pushdesk/internal/formatter"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/roster"
	"github.com/spf13/cobra"
)

// rosterFactory hands out fresh rosters bound to the gateways.
type rosterFactory interface {
	NewRoster() *roster.ViewModel
}

const listCommandLong = `List clients with search, sorting and formats.

USAGE:
    pushdesk list [OPTIONS]

OPTIONS:
    --search <text>      Keep clients whose name, email, phone or company contains text
    --sort <column>      Sort by column: name, email, company, status, created_at
    --order <order>      Sort order: asc (default), desc
    --format=<format>    Output format: simple (default), table, compact, json
    --template <tpl>     Render each client with a template or preset (contact, csv, ids, card)
    -h, --help           Show this help

When the server cannot be reached the built-in demo roster is listed and a
warning is printed.`

// ListOptions holds the parameters of one list invocation.
type ListOptions struct {
	Search   string
	Sort     string
	Order    string
	Format   string
	Template string
}

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client rosterFactory, loc *i18n.Localizer) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	var opts ListOptions

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout())
			defer cancel()
			return PrintList(ctx, cmd.OutOrStdout(), client.NewRoster(), loc, opts)
		},
	}

	listCmd.Flags().StringVar(&opts.Search, "search", "", "Filter clients by name, email, phone or company")
	listCmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by column: name, email, company, status, created_at")
	listCmd.Flags().StringVar(&opts.Order, "order", "asc", "Sort order: asc, desc")
	listCmd.Flags().StringVar(&opts.Format, "format", "simple", "Output format: simple, table, compact, json")
	listCmd.Flags().StringVar(&opts.Template, "template", "", "Template or preset name used for each client")

	return listCmd
}

// PrintList loads rv with opts and writes the visible clients to w.
func PrintList(ctx context.Context, w io.Writer, rv *roster.ViewModel, loc *i18n.Localizer, opts ListOptions) error {
	column, err := domain.ParseColumn(opts.Sort)
	if err != nil {
		return err
	}
	if column != "" && !column.IsSortable() {
		return fmt.Errorf("column %s cannot be sorted", column)
	}
	order, err := domain.ParseSortOrder(opts.Order)
	if err != nil {
		return err
	}
	template, err := resolveTemplate(opts.Template, opts.Format, formatter.KindClient)
	if err != nil {
		return err
	}

	out, loadErr := rv.Load(ctx, opts.Search, column, order)
	if loadErr != nil {
		colors.Debug(loadErr.Error())
	}
	if out.Offline {
		colors.Warning(loc.T("banner.offline"))
	}

	clients := rv.Projected()
	if template != "" {
		return formatter.RenderClients(w, template, clients)
	}
	if len(clients) == 0 && opts.Format != string(format.FormatterTypeJSON) {
		colors.Info(loc.T("list.empty"))
		return nil
	}
	return format.GetFormatter(opts.Format, loc).FormatClients(clients, w)
}

// resolveTemplate validates --format and expands a --template preset. It
// returns "" when no template was given.
func resolveTemplate(template, formatName string, kind formatter.Kind) (string, error) {
	if !format.IsValidType(formatName) {
		return "", fmt.Errorf("invalid format: %s (must be simple, table, compact or json)", formatName)
	}
	if template == "" {
		return "", nil
	}
	resolved, err := formatter.Resolve(formatter.NewPresetRegistry(), template, kind)
	if err != nil {
		return "", err
	}
	if err := formatter.NewTemplateEngine().ValidateTemplate(resolved, kind); err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}
	return resolved, nil
}
