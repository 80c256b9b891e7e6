// Package roster holds the client roster view-model: the loaded collection,
// its filtered and sorted projection, the selection and push dispatch.
//
// A ViewModel has a single owner and is not safe for concurrent use. Callers
// that load on another goroutine use BeginLoad and ApplyLoad; results carrying
// an outdated token are dropped.
package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
)

// ErrPushRejected is returned when a dispatch reached the server but was not accepted.
var ErrPushRejected = errors.New("push notification rejected")

// Loader fetches clients. *gateway.ClientGateway implements it.
type Loader interface {
	Fetch(ctx context.Context, params gateway.FetchParams) (gateway.FetchResult, error)
}

// LoadRequest is an issued load. Token identifies it in ApplyLoad.
type LoadRequest struct {
	Token  uint64
	Params gateway.FetchParams
}

// LoadOutcome summarizes an applied load.
type LoadOutcome struct {
	Count   int
	Visible int
	Offline bool
}

// RejectedError wraps ErrPushRejected with the server's explanation.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrPushRejected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPushRejected, e.Message)
}

func (e *RejectedError) Is(target error) bool { return target == ErrPushRejected }

// UserMessage returns the server's text when it gave one.
func (e *RejectedError) UserMessage() string { return e.Message }

// ViewModel is the roster state.
type ViewModel struct {
	loader      Loader
	broadcaster *Broadcaster
	seed        func() []domain.Client

	all       []domain.Client
	projected []domain.Client
	query     string
	column    domain.Column
	order     domain.SortOrder

	selected    []domain.ClientID
	selectedSet map[domain.ClientID]struct{}

	latest  uint64
	loading bool
	offline bool
	err     error
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithSeed replaces the collection shown after a first failed load.
func WithSeed(seed func() []domain.Client) Option {
	return func(v *ViewModel) {
		if seed != nil {
			v.seed = seed
		}
	}
}

// New creates an empty roster. It panics if loader or broadcaster is nil.
func New(loader Loader, broadcaster *Broadcaster, opts ...Option) *ViewModel {
	if loader == nil {
		panic("roster.New: loader dependency cannot be nil")
	}
	if broadcaster == nil {
		panic("roster.New: broadcaster dependency cannot be nil")
	}
	v := &ViewModel{
		loader:      loader,
		broadcaster: broadcaster,
		seed:        fallback.SeedClients,
		order:       domain.SortOrderAsc,
		selectedSet: make(map[domain.ClientID]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load sets the query and sort, then reloads. An empty column clears sorting;
// a column that cannot be sorted leaves the current sort alone.
func (v *ViewModel) Load(ctx context.Context, query string, column domain.Column, order domain.SortOrder) (LoadOutcome, error) {
	v.query = query
	v.SetSort(column, order)
	return v.Reload(ctx)
}

// Reload fetches with the current query and sort. Errors from the loader are
// recorded and returned, and the roster is never left empty after one.
func (v *ViewModel) Reload(ctx context.Context) (LoadOutcome, error) {
	req := v.BeginLoad()
	res, err := v.loader.Fetch(ctx, req.Params)
	v.ApplyLoad(req.Token, res, err)
	out := LoadOutcome{Count: len(v.all), Visible: len(v.projected), Offline: v.offline}
	if err != nil {
		return out, fmt.Errorf("load clients: %w", err)
	}
	return out, nil
}

// BeginLoad issues a new load token and marks the roster as loading. Any
// earlier token is superseded.
func (v *ViewModel) BeginLoad() LoadRequest {
	v.latest++
	v.loading = true
	return LoadRequest{
		Token: v.latest,
		Params: gateway.FetchParams{
			Page:   1,
			Search: v.query,
			Column: v.column,
			Order:  v.order,
		},
	}
}

// ApplyLoad applies the result of the load identified by token. It reports
// false, changing nothing, when a newer load has been issued since.
func (v *ViewModel) ApplyLoad(token uint64, res gateway.FetchResult, err error) bool {
	if token != v.latest {
		return false
	}
	v.loading = false

	if err == nil {
		v.replaceAll(res.Clients)
		v.offline = res.UsedFallback
		v.err = nil
		return true
	}

	v.err = err
	if len(v.all) == 0 {
		v.replaceAll(v.seed())
	}
	v.offline = len(v.all) > 0
	return true
}

func (v *ViewModel) replaceAll(clients []domain.Client) {
	v.all = append([]domain.Client(nil), clients...)
	v.pruneSelection()
	v.recompute()
}

func (v *ViewModel) recompute() {
	v.projected = domain.SortClients(domain.FilterClients(v.all, v.query), v.column, v.order)
}

// pruneSelection drops selected ids that are no longer present in all.
func (v *ViewModel) pruneSelection() {
	present := make(map[domain.ClientID]struct{}, len(v.all))
	for _, c := range v.all {
		present[c.ID] = struct{}{}
	}
	kept := v.selected[:0]
	for _, id := range v.selected {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
		} else {
			delete(v.selectedSet, id)
		}
	}
	v.selected = kept
}

// SetQuery changes the search text. It never touches the loaded collection.
func (v *ViewModel) SetQuery(text string) {
	v.query = text
	v.recompute()
}

// SortBy applies the header-click rule: the active column flips direction, a
// new sortable column sorts ascending, anything else is ignored.
func (v *ViewModel) SortBy(column domain.Column) {
	if !column.IsSortable() {
		return
	}
	if v.column == column {
		v.order = v.order.Flip()
	} else {
		v.column = column
		v.order = domain.SortOrderAsc
	}
	v.recompute()
}

// SetSort sets column and order directly. An empty column clears sorting.
func (v *ViewModel) SetSort(column domain.Column, order domain.SortOrder) {
	switch {
	case column == "":
		v.column = ""
	case column.IsSortable():
		v.column = column
	default:
		return
	}
	if order.IsValid() {
		v.order = order
	} else {
		v.order = domain.SortOrderAsc
	}
	v.recompute()
}

func (v *ViewModel) contains(id domain.ClientID) bool {
	for _, c := range v.all {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ToggleSelection selects client if unselected and unselects it otherwise.
// Clients not in the roster are ignored. It reports the new state.
func (v *ViewModel) ToggleSelection(client domain.Client) bool {
	return v.ToggleID(client.ID)
}

// ToggleID is ToggleSelection by identifier.
func (v *ViewModel) ToggleID(id domain.ClientID) bool {
	if _, ok := v.selectedSet[id]; ok {
		delete(v.selectedSet, id)
		for i, s := range v.selected {
			if s == id {
				v.selected = append(v.selected[:i], v.selected[i+1:]...)
				break
			}
		}
		return false
	}
	if !v.contains(id) {
		return false
	}
	v.selectedSet[id] = struct{}{}
	v.selected = append(v.selected, id)
	return true
}

// SelectAll clears the selection when its size equals the number of visible
// clients and otherwise selects exactly the visible clients.
func (v *ViewModel) SelectAll() {
	if len(v.selected) == len(v.projected) {
		v.ClearSelection()
		return
	}
	v.ClearSelection()
	for _, c := range v.projected {
		if _, ok := v.selectedSet[c.ID]; ok {
			continue
		}
		v.selectedSet[c.ID] = struct{}{}
		v.selected = append(v.selected, c.ID)
	}
}

// IsAllSelected reports whether at least one client is visible and every
// visible client is selected.
func (v *ViewModel) IsAllSelected() bool {
	if len(v.projected) == 0 {
		return false
	}
	for _, c := range v.projected {
		if _, ok := v.selectedSet[c.ID]; !ok {
			return false
		}
	}
	return true
}

// IsPartiallySelected reports whether the selection is non-empty and smaller
// than the visible set.
func (v *ViewModel) IsPartiallySelected() bool {
	n := len(v.selected)
	return n > 0 && n < len(v.projected)
}

// ClearSelection empties the selection.
func (v *ViewModel) ClearSelection() {
	v.selected = nil
	v.selectedSet = make(map[domain.ClientID]struct{})
}

// IsSelected reports whether id is selected.
func (v *ViewModel) IsSelected(id domain.ClientID) bool {
	_, ok := v.selectedSet[id]
	return ok
}

// Selected returns the selected ids in selection order.
func (v *ViewModel) Selected() []domain.ClientID {
	return append([]domain.ClientID(nil), v.selected...)
}

// SelectedClients returns the selected clients in selection order.
func (v *ViewModel) SelectedClients() []domain.Client {
	byID := make(map[domain.ClientID]domain.Client, len(v.all))
	for _, c := range v.all {
		byID[c.ID] = c
	}
	out := make([]domain.Client, 0, len(v.selected))
	for _, id := range v.selected {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// DispatchPush sends title and message to the selected clients. With nothing
// selected it fails with domain.ErrNoSelection and sends nothing. The
// selection is cleared only when the dispatch succeeds.
func (v *ViewModel) DispatchPush(ctx context.Context, title, message string) (gateway.Outcome, error) {
	targets, err := v.PushTargets()
	if err != nil {
		return gateway.Outcome{}, err
	}
	outcome, err := v.broadcaster.Broadcast(ctx, targets, title, message)
	return outcome, v.ApplyPushOutcome(outcome, err)
}

// PushTargets returns the ids a dispatch would address, or domain.ErrNoSelection.
func (v *ViewModel) PushTargets() ([]domain.ClientID, error) {
	if len(v.selected) == 0 {
		return nil, domain.ErrNoSelection
	}
	return v.Selected(), nil
}

// Broadcaster returns the dispatcher used by DispatchPush.
func (v *ViewModel) Broadcaster() *Broadcaster {
	return v.broadcaster
}

// Loader returns the loader used by Reload, for callers that fetch on their
// own goroutine between BeginLoad and ApplyLoad.
func (v *ViewModel) Loader() Loader {
	return v.loader
}

// ApplyPushOutcome applies a dispatch result computed elsewhere and returns
// the error the caller should surface.
func (v *ViewModel) ApplyPushOutcome(outcome gateway.Outcome, err error) error {
	if err != nil {
		return err
	}
	if !outcome.Success {
		return &RejectedError{Message: outcome.Message}
	}
	v.ClearSelection()
	return nil
}

// Projected returns the visible clients in display order.
func (v *ViewModel) Projected() []domain.Client {
	return append([]domain.Client(nil), v.projected...)
}

// All returns the loaded clients in arrival order.
func (v *ViewModel) All() []domain.Client {
	return append([]domain.Client(nil), v.all...)
}

// Query returns the current search text.
func (v *ViewModel) Query() string { return v.query }

// SortColumn returns the active sort column, empty when unsorted.
func (v *ViewModel) SortColumn() domain.Column { return v.column }

func (v *ViewModel) SortOrder() domain.SortOrder { return v.order }

// Offline reports whether the roster shows fallback data.
func (v *ViewModel) Offline() bool { return v.offline }

// Err returns the error of the last applied load, if any.
func (v *ViewModel) Err() error { return v.err }

func (v *ViewModel) Loading() bool { return v.loading }
