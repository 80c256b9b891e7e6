package roster

import (
	"context"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/logging"
)

// Sender delivers push notifications. *gateway.NotificationGateway implements it.
type Sender interface {
	Send(ctx context.Context, req gateway.PushRequest) (gateway.Outcome, error)
}

// DispatchRecord describes one completed dispatch.
type DispatchRecord struct {
	At        time.Time
	Title     string
	Message   string
	ClientIDs []domain.ClientID
	Outcome   gateway.Outcome
}

// Recorder persists dispatch records. Failures to record never fail a dispatch.
type Recorder interface {
	RecordDispatch(ctx context.Context, rec DispatchRecord) error
}

// Broadcaster fans a selection out to a Sender.
type Broadcaster struct {
	sender   Sender
	recorder Recorder
	now      func() time.Time
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithRecorder records every dispatch that reached the gateway.
func WithRecorder(r Recorder) BroadcasterOption {
	return func(b *Broadcaster) {
		b.recorder = r
	}
}

// WithBroadcastClock overrides the timestamp source of dispatch records.
func WithBroadcastClock(now func() time.Time) BroadcasterOption {
	return func(b *Broadcaster) {
		b.now = now
	}
}

// NewBroadcaster creates a Broadcaster. It panics if sender is nil.
func NewBroadcaster(sender Sender, opts ...BroadcasterOption) *Broadcaster {
	if sender == nil {
		panic("NewBroadcaster: sender dependency cannot be nil")
	}
	b := &Broadcaster{sender: sender, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Broadcast sends title and message to ids. An empty ids fails with
// domain.ErrNoSelection before anything is sent.
func (b *Broadcaster) Broadcast(ctx context.Context, ids []domain.ClientID, title, message string) (gateway.Outcome, error) {
	if len(ids) == 0 {
		return gateway.Outcome{}, domain.ErrNoSelection
	}
	targets := append([]domain.ClientID(nil), ids...)
	outcome, err := b.sender.Send(ctx, gateway.PushRequest{Title: title, Message: message, ClientIDs: targets})
	if err != nil {
		return outcome, err
	}

	if b.recorder != nil {
		rec := DispatchRecord{At: b.now(), Title: title, Message: message, ClientIDs: targets, Outcome: outcome}
		if rerr := b.recorder.RecordDispatch(ctx, rec); rerr != nil {
			logging.Component("broadcaster").Warn("failed to record dispatch", "error", rerr.Error())
		}
	}
	return outcome, nil
}
