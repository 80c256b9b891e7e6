// Package state implements the bubbletea model of the client roster screen.
//
// The model is the single owner of its roster.ViewModel: all mutations happen
// in Update. Fetches, dispatches and creates run as tea.Cmd goroutines and
// come back as messages.
package state

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/errors"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/i18n"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/cristianoliveira/pushdesk/internal/roster"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	statusClearDelay      = 5 * time.Second
	searchInputLimit      = 200
	searchInputWidth      = 40

	// chromeLines counts the title, banner and header rows above the list
	// and the three footer lines below it.
	chromeLines = 6
)

// Creator creates clients. *gateway.ClientGateway implements it.
type Creator interface {
	Create(ctx context.Context, draft domain.Draft) (gateway.CreateResult, error)
}

// Deps are the collaborators of the roster screen.
type Deps struct {
	Roster    *roster.ViewModel
	Creator   Creator
	Localizer *i18n.Localizer

	// User is shown in the title bar when set.
	User string
}

// Model represents the TUI model for bubbletea.
type Model struct {
	roster  *roster.ViewModel
	creator Creator
	loc     *i18n.Localizer
	user    string
	log     logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	uiState *UIState
	search  textinput.Model
	form    *form
	busy    bool

	errorHandler      *errors.TUIHandler
	statusMessage     string
	statusMessageType errors.MessageType
	statusSeq         int
	statusDelay       time.Duration
}

// NewModel creates the roster screen. It panics when Roster or Creator is nil.
func NewModel(deps Deps) *Model {
	if deps.Roster == nil {
		panic("state.NewModel: roster view-model cannot be nil")
	}
	if deps.Creator == nil {
		panic("state.NewModel: creator cannot be nil")
	}
	loc := deps.Localizer
	if loc == nil {
		loc = i18n.New(i18n.BaseLocale)
	}

	search := textinput.New()
	search.Prompt = "> "
	search.CharLimit = searchInputLimit
	search.Width = searchInputWidth

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		roster:            deps.Roster,
		creator:           deps.Creator,
		loc:               loc,
		user:              deps.User,
		log:               logging.Component("tui"),
		ctx:               ctx,
		cancel:            cancel,
		uiState:           NewUIState(),
		search:            search,
		statusMessageType: errors.MessageTypeInfo,
		statusDelay:       statusClearDelay,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.statusSeq++
		m.statusMessage = msg.Text
		m.statusMessageType = msg.Type
	})
	return m
}

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.uiState.SetWidth(msg.Width)
		m.uiState.SetHeight(msg.Height)
		m.uiState.UpdateViewportSize()
		m.updateViewportContent()
		return m, nil
	case clientsLoadedMsg:
		return m, m.handleClientsLoaded(msg)
	case pushSentMsg:
		return m, m.handlePushSent(msg)
	case clientCreatedMsg:
		return m, m.handleClientCreated(msg)
	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
		}
		return m, nil
	}
	if m.form != nil {
		return m, m.form.update(msg)
	}
	if m.uiState.GetMode() == ModeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Roster returns the view-model behind the screen.
func (m *Model) Roster() *roster.ViewModel {
	return m.roster
}

// StatusMessage returns the text and kind of the status line.
func (m *Model) StatusMessage() (string, errors.MessageType) {
	return m.statusMessage, m.statusMessageType
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode {
	return m.uiState.GetMode()
}

// Cursor returns the index of the highlighted row in the projection.
func (m *Model) Cursor() int {
	return m.uiState.GetCursor()
}

// Close cancels requests still in flight.
func (m *Model) Close() {
	m.cancel()
}

// notify sets the status line and schedules its removal.
func (m *Model) notify(kind errors.MessageType, text string) tea.Cmd {
	switch kind {
	case errors.MessageTypeError:
		m.errorHandler.Error(text)
	case errors.MessageTypeWarning:
		m.errorHandler.Warning(text)
	case errors.MessageTypeSuccess:
		m.errorHandler.Success(text)
	default:
		m.errorHandler.Info(text)
	}
	return statusClearAfter(m.statusSeq, m.statusDelay)
}

// loadCmd issues a load token and fetches on a command goroutine.
func (m *Model) loadCmd() tea.Cmd {
	req := m.roster.BeginLoad()
	loader := m.roster.Loader()
	ctx := m.ctx
	return func() tea.Msg {
		res, err := loader.Fetch(ctx, req.Params)
		return clientsLoadedMsg{token: req.Token, result: res, err: err}
	}
}

func (m *Model) handleClientsLoaded(msg clientsLoadedMsg) tea.Cmd {
	if !m.roster.ApplyLoad(msg.token, msg.result, msg.err) {
		m.log.Debug("stale load dropped", "token", msg.token)
		return nil
	}
	m.clampCursor()
	m.updateViewportContent()
	if msg.err != nil {
		m.log.Warn("load failed", "error", msg.err)
		return m.notify(errors.MessageTypeWarning, m.loc.Error(msg.err))
	}
	return nil
}

// pushCmd dispatches to targets on a command goroutine.
func (m *Model) pushCmd(targets []domain.ClientID, title, message string) tea.Cmd {
	broadcaster := m.roster.Broadcaster()
	ctx := m.ctx
	return func() tea.Msg {
		outcome, err := broadcaster.Broadcast(ctx, targets, title, message)
		return pushSentMsg{outcome: outcome, err: err, count: len(targets)}
	}
}

func (m *Model) handlePushSent(msg pushSentMsg) tea.Cmd {
	m.busy = false
	err := m.roster.ApplyPushOutcome(msg.outcome, msg.err)
	if err != nil {
		if m.form != nil && m.form.showProblems(err, m.loc) {
			return nil
		}
		return m.notify(errors.MessageTypeError, m.describePushError(err))
	}
	m.closeForm()
	m.updateViewportContent()
	return m.notify(errors.MessageTypeSuccess, m.loc.PushResult(msg.outcome, msg.count))
}

func (m *Model) describePushError(err error) string {
	if stderrors.Is(err, domain.ErrValidation) {
		return m.loc.Error(err)
	}
	if text := errors.Describe(err); text != "" && text != roster.ErrPushRejected.Error() {
		return m.loc.T("push.failed") + ": " + text
	}
	return m.loc.T("push.failed")
}

// createCmd creates draft on a command goroutine.
func (m *Model) createCmd(draft domain.Draft) tea.Cmd {
	creator := m.creator
	ctx := m.ctx
	return func() tea.Msg {
		res, err := creator.Create(ctx, draft)
		return clientCreatedMsg{result: res, err: err}
	}
}

func (m *Model) handleClientCreated(msg clientCreatedMsg) tea.Cmd {
	m.busy = false
	if msg.err != nil {
		if m.form != nil && m.form.showProblems(msg.err, m.loc) {
			return nil
		}
		m.log.Error("client create failed", "error", msg.err)
		return m.notify(errors.MessageTypeError, m.loc.T("client.create_failed"))
	}
	m.closeForm()
	text := m.loc.T("client.created", msg.result.Client.Name)
	if msg.result.UsedFallback {
		text = m.loc.T("client.created_offline", msg.result.Client.Name)
	}
	return tea.Batch(m.notify(errors.MessageTypeSuccess, text), m.loadCmd())
}

func (m *Model) closeForm() {
	m.form = nil
	m.uiState.SetMode(ModeList)
}

func (m *Model) clampCursor() {
	n := len(m.roster.Projected())
	m.uiState.SetCursor(m.uiState.GetCursor(), n)
	m.uiState.EnsureCursorVisible(n)
}
