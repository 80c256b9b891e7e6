package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/journal"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/cristianoliveira/pushdesk/internal/roster"
	"github.com/cristianoliveira/pushdesk/internal/session"
	"github.com/cristianoliveira/pushdesk/internal/tui/state"
	"github.com/cristianoliveira/pushdesk/internal/version"
)

// errJournalDisabled is returned by journal commands when journal_enabled is off.
var errJournalDisabled = errors.New("journal disabled")

// runtime holds the services shared by every command of one invocation.
type runtime struct {
	loc      *i18n.Localizer
	session  *session.Service
	source   *fallback.Source
	clients  *gateway.ClientGateway
	notifier *gateway.NotificationGateway
	journal  *journal.Journal
}

// newRuntime wires the services from the loaded configuration. A journal
// that cannot be opened is reported and left out.
func newRuntime() *runtime {
	production := config.GetBool("production", false)
	latency := fallback.ScaledLatency(config.GetInt("fallback_latency_ms", 300))

	rt := &runtime{
		loc:    i18n.New(config.Get("locale", i18n.BaseLocale)),
		source: fallback.InitDefault(fallback.WithLatency(latency)),
	}

	api := apiclient.NewFromConfig(
		apiclient.HeaderFunc(rt.authHeaders),
		apiclient.WithLogger(logging.Component("apiclient")),
	)
	rt.session = session.NewService(api,
		session.WithPath(session.DefaultPath()),
		session.WithProduction(production),
		session.WithLoginLatency(latency.Login),
	)
	if err := rt.session.Restore(); err != nil {
		colors.Warning(fmt.Sprintf("Could not restore session: %v", err))
	}

	rt.clients = gateway.NewClientGateway(api, rt.source)
	rt.notifier = gateway.NewNotificationGateway(api,
		gateway.WithProduction(production),
		gateway.WithPushLatency(latency.Push),
	)

	if config.GetBool("journal_enabled", true) {
		j, err := journal.Open(journal.DefaultPath())
		if err != nil {
			colors.Warning(fmt.Sprintf("Push journal unavailable: %v", err))
		} else {
			rt.journal = j
		}
	}
	return rt
}

func (r *runtime) authHeaders() map[string]string {
	if r.session == nil {
		return map[string]string{}
	}
	return r.session.AuthHeaders()
}

// NewRoster returns an empty roster that loads through the client gateway
// and dispatches through the notification gateway, recording every dispatch
// in the journal when one is open.
func (r *runtime) NewRoster() *roster.ViewModel {
	var opts []roster.BroadcasterOption
	if r.journal != nil {
		opts = append(opts, roster.WithRecorder(r.journal))
	}
	return roster.New(r.clients, roster.NewBroadcaster(r.notifier, opts...))
}

// TUIDeps returns the dependencies of the interactive screen.
func (r *runtime) TUIDeps() state.Deps {
	user, _ := r.session.CurrentUser()
	return state.Deps{
		Roster:    r.NewRoster(),
		Creator:   r.clients,
		Localizer: r.loc,
		User:      user.Login,
	}
}

// Journal returns the open journal, or a store that fails every call with
// errJournalDisabled.
func (r *runtime) Journal() journalStore {
	if r.journal == nil {
		return disabledJournal{}
	}
	return r.journal
}

// Close releases the journal.
func (r *runtime) Close() error {
	if r.journal == nil {
		return nil
	}
	return r.journal.Close()
}

type disabledJournal struct{}

func (disabledJournal) List(context.Context, journal.ListOptions) ([]journal.Entry, error) {
	return nil, errJournalDisabled
}

func (disabledJournal) Prune(context.Context, int, bool) (int64, error) {
	return 0, errJournalDisabled
}

// buildInfo reports the binary's version.
type buildInfo struct{}

func (buildInfo) Version() string { return version.String() }

// commandTimeout bounds one-shot commands so a stuck server cannot hang them.
func commandTimeout() time.Duration {
	return 2*config.GetDuration("request_timeout", apiclient.DefaultTimeout) + 5*time.Second
}
