package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/format"
	"github.com/cristianoliveira/pushdesk/internal/formatter"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/journal"
	"github.com/spf13/cobra"
)

type journalStore interface {
	List(ctx context.Context, opts journal.ListOptions) ([]journal.Entry, error)
	Prune(ctx context.Context, days int, dryRun bool) (int64, error)
}

const journalCommandLong = `Inspect the push journal.

Every dispatch, including demo-mode ones, is recorded in state_dir/journal.db.

USAGE:
    pushdesk journal list [OPTIONS]
    pushdesk journal prune [--days N] [--dry-run]`

// JournalListOptions holds the parameters of journal list.
type JournalListOptions struct {
	Limit    int
	Mode     string
	Since    time.Duration
	Format   string
	Template string
}

// NewJournalCmd creates the journal command with explicit dependencies.
func NewJournalCmd(store journalStore, loc *i18n.Localizer) *cobra.Command {
	if store == nil {
		panic("NewJournalCmd: store dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded push dispatches",
		Long:  journalCommandLong,
		Args:  cobra.NoArgs,
	}
	journalCmd.AddCommand(newJournalListCmd(store, loc), newJournalPruneCmd(store, loc))
	return journalCmd
}

func newJournalListCmd(store journalStore, loc *i18n.Localizer) *cobra.Command {
	var opts JournalListOptions

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded dispatches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintJournal(cmd.Context(), cmd.OutOrStdout(), store, loc, opts)
		},
	}

	listCmd.Flags().IntVar(&opts.Limit, "limit", 20, "Show at most N dispatches (0 for all)")
	listCmd.Flags().StringVar(&opts.Mode, "mode", "", "Filter by delivery mode: server, mock, offline")
	listCmd.Flags().DurationVar(&opts.Since, "since", 0, "Show dispatches younger than the duration, e.g. 24h")
	listCmd.Flags().StringVar(&opts.Format, "format", "simple", "Output format: simple, table, compact, json")
	listCmd.Flags().StringVar(&opts.Template, "template", "", "Template or preset name used for each dispatch (journal, recipients)")

	return listCmd
}

// PrintJournal writes the dispatches selected by opts to w.
func PrintJournal(ctx context.Context, w io.Writer, store journalStore, loc *i18n.Localizer, opts JournalListOptions) error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	template, err := resolveTemplate(opts.Template, opts.Format, formatter.KindEntry)
	if err != nil {
		return err
	}

	listOpts := journal.ListOptions{Limit: opts.Limit, Mode: opts.Mode}
	if opts.Since > 0 {
		listOpts.Since = time.Now().Add(-opts.Since)
	}
	entries, err := store.List(ctx, listOpts)
	if err != nil {
		return journalError(loc, err)
	}

	if template != "" {
		return formatter.RenderEntries(w, template, entries)
	}
	if len(entries) == 0 && opts.Format != string(format.FormatterTypeJSON) {
		colors.Info(loc.T("journal.empty"))
		return nil
	}
	return format.GetFormatter(opts.Format, loc).FormatDispatches(entries, w)
}

func newJournalPruneCmd(store journalStore, loc *i18n.Localizer) *cobra.Command {
	var daysFlag int
	var dryRunFlag bool

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old dispatches",
		Long: `Remove dispatches recorded more than N days ago.

Use --dry-run to see how many entries would be removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if daysFlag <= 0 {
				return fmt.Errorf("days must be a positive integer")
			}
			n, err := store.Prune(cmd.Context(), daysFlag, dryRunFlag)
			if err != nil {
				return journalError(loc, err)
			}
			if dryRunFlag {
				colors.Info(loc.T("journal.prune_preview", n))
			} else {
				colors.Success(loc.T("journal.pruned", n))
			}
			return nil
		},
	}

	pruneCmd.Flags().IntVar(&daysFlag, "days", 30, "Remove dispatches older than N days")
	pruneCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be removed without removing it")

	return pruneCmd
}

func journalError(loc *i18n.Localizer, err error) error {
	if errors.Is(err, errJournalDisabled) {
		return fmt.Errorf("%s: %w", loc.T("journal.disabled"), err)
	}
	return err
}
