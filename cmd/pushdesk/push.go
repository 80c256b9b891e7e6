package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/roster"
	"github.com/spf13/cobra"
)

const pushCommandLong = `Send a push notification to clients.

USAGE:
    pushdesk push --title <title> --message <message> [ID...]
    pushdesk push --title <title> --message <message> --all [--search <text>]

OPTIONS:
    --title <title>      Notification title, up to 100 characters (required)
    --message <message>  Notification body, up to 500 characters (required)
    --all                Address every client in the roster
    --search <text>      With --all, address only the clients matching text
    -h, --help           Show this help

Outside production a forbidden or unreachable server is reported as a
dispatch in demo mode.`

// PushOptions holds the parameters of one push invocation.
type PushOptions struct {
	IDs     []string
	All     bool
	Search  string
	Title   string
	Message string
}

// NewPushCmd creates the push command with explicit dependencies.
func NewPushCmd(client rosterFactory, loc *i18n.Localizer) *cobra.Command {
	if client == nil {
		panic("NewPushCmd: client dependency cannot be nil")
	}
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	var opts PushOptions

	pushCmd := &cobra.Command{
		Use:   "push [ID...]",
		Short: "Send a push notification",
		Long:  pushCommandLong,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.IDs = args
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout())
			defer cancel()
			return Push(ctx, client.NewRoster(), loc, opts)
		},
	}

	pushCmd.Flags().StringVar(&opts.Title, "title", "", "Notification title (required)")
	pushCmd.Flags().StringVar(&opts.Message, "message", "", "Notification body (required)")
	pushCmd.Flags().BoolVar(&opts.All, "all", false, "Address every visible client")
	pushCmd.Flags().StringVar(&opts.Search, "search", "", "With --all, address only clients matching text")

	return pushCmd
}

// Push loads rv, selects the addressed clients and dispatches. The title and
// message are checked before anything is loaded.
func Push(ctx context.Context, rv *roster.ViewModel, loc *i18n.Localizer, opts PushOptions) error {
	if opts.All && len(opts.IDs) > 0 {
		return errors.New("pass client ids or --all, not both")
	}
	if opts.Search != "" && !opts.All {
		return errors.New("--search requires --all")
	}
	if err := domain.ValidatePush(opts.Title, opts.Message); err != nil {
		return err
	}

	out, loadErr := rv.Load(ctx, opts.Search, "", domain.SortOrderAsc)
	if loadErr != nil {
		colors.Debug(loadErr.Error())
	}
	if out.Offline {
		colors.Warning(loc.T("banner.offline"))
	}

	if opts.All {
		rv.SelectAll()
	}
	for _, raw := range opts.IDs {
		id := domain.ClientID(raw)
		if rv.IsSelected(id) {
			continue
		}
		if !rv.ToggleID(id) {
			colors.Warning(loc.T("cli.unknown_client", raw))
		}
	}

	count := len(rv.Selected())
	outcome, err := rv.DispatchPush(ctx, opts.Title, opts.Message)
	if err != nil {
		if errors.Is(err, roster.ErrPushRejected) {
			return fmt.Errorf("%s: %w", loc.T("push.failed"), err)
		}
		return err
	}
	colors.Success(loc.PushResult(outcome, count))
	return nil
}
