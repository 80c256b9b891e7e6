// Package fallback provides the offline data source used when the remote API
// cannot be reached: a fixed seed roster plus the clients created while offline.
// Nothing here is persisted; the data lives as long as the process.
package fallback

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/domain"
)

// Latency holds the artificial delays that mimic network round-trips.
type Latency struct {
	Read  time.Duration
	Write time.Duration
	Push  time.Duration
	Login time.Duration
}

// DefaultLatency returns the delays used outside of tests.
func DefaultLatency() Latency {
	return Latency{
		Read:  300 * time.Millisecond,
		Write: 300 * time.Millisecond,
		Push:  400 * time.Millisecond,
		Login: 500 * time.Millisecond,
	}
}

// ScaledLatency derives all delays from a single base read delay in milliseconds.
func ScaledLatency(baseMillis int) Latency {
	if baseMillis <= 0 {
		return Latency{}
	}
	base := time.Duration(baseMillis) * time.Millisecond
	return Latency{
		Read:  base,
		Write: base,
		Push:  base * 4 / 3,
		Login: base * 5 / 3,
	}
}

// Source is the in-memory fallback dataset. It is safe for concurrent use.
type Source struct {
	mu      sync.Mutex
	created []domain.Client
	lastID  int64
	latency Latency
	now     func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithLatency overrides the simulated delays.
func WithLatency(l Latency) Option {
	return func(s *Source) {
		s.latency = l
	}
}

// WithClock overrides the time source used for timestamps and identifiers.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// NewSource creates an empty fallback source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		latency: DefaultLatency(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latency returns the configured delays.
func (s *Source) Latency() Latency {
	return s.latency
}

// SeedClients returns the fixed five-record fixture, always in the same order.
func (s *Source) SeedClients() []domain.Client {
	return SeedClients()
}

// CreatedClients returns the clients recorded by RecordCreatedClient in creation order.
func (s *Source) CreatedClients() []domain.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Client, len(s.created))
	copy(out, s.created)
	return out
}

// Clients returns seed clients followed by created clients, without delay.
func (s *Source) Clients() []domain.Client {
	seed := SeedClients()
	created := s.CreatedClients()
	out := make([]domain.Client, 0, len(seed)+len(created))
	out = append(out, seed...)
	return append(out, created...)
}

// List returns the combined roster after the simulated read delay.
func (s *Source) List(ctx context.Context) ([]domain.Client, error) {
	if err := Delay(ctx, s.latency.Read); err != nil {
		return nil, err
	}
	return s.Clients(), nil
}

// RecordCreatedClient synthesizes a client from draft, appends it to the created
// list and returns it. Identifiers are time-derived and strictly increasing, so they
// never collide with the seed range or with earlier records.
func (s *Source) RecordCreatedClient(ctx context.Context, draft domain.Draft) (domain.Client, error) {
	if err := Delay(ctx, s.latency.Write); err != nil {
		return domain.Client{}, err
	}
	draft = draft.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	if id <= seedMaxID {
		id = seedMaxID + 1
	}
	s.lastID = id

	stamp := domain.FormatTimestamp(now)
	client := domain.Client{
		ID:        domain.ClientID(strconv.FormatInt(id, 10)),
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		Company:   draft.Company,
		Status:    draft.Status,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
	s.created = append(s.created, client)
	return client, nil
}

// Delay waits for d or until ctx is done.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	defaultSource *Source
	defaultMu     sync.Mutex
)

// Default returns the process-wide source, creating it on first use.
// Every gateway in the process shares its created-clients list.
func Default() *Source {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSource == nil {
		defaultSource = NewSource()
	}
	return defaultSource
}

// InitDefault replaces the process-wide source. It is meant to be called once at
// startup, before any gateway is built.
func InitDefault(opts ...Option) *Source {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSource = NewSource(opts...)
	return defaultSource
}

// ResetDefault drops the process-wide source. Tests call it between runs.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultSource = nil
}
