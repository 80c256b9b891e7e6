package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/cristianoliveira/pushdesk/internal/roster"
)

// fakeBackend stands in for both gateways.
type fakeBackend struct {
	clients []domain.Client
	offline bool
	loadErr error

	outcome gateway.Outcome
	sendErr error
	sent    []gateway.PushRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		clients: fallback.SeedClients(),
		outcome: gateway.Outcome{Success: true},
	}
}

func (f *fakeBackend) Fetch(ctx context.Context, params gateway.FetchParams) (gateway.FetchResult, error) {
	if f.loadErr != nil {
		return gateway.FetchResult{}, f.loadErr
	}
	return gateway.FetchResult{Clients: f.clients, Total: len(f.clients), UsedFallback: f.offline}, nil
}

func (f *fakeBackend) Send(ctx context.Context, req gateway.PushRequest) (gateway.Outcome, error) {
	f.sent = append(f.sent, req)
	if f.sendErr != nil {
		return gateway.Outcome{}, f.sendErr
	}
	out := f.outcome
	if out.Success && out.SentCount == 0 {
		out.SentCount = len(req.ClientIDs)
	}
	return out, nil
}

func (f *fakeBackend) NewRoster() *roster.ViewModel {
	return roster.New(f, roster.NewBroadcaster(f))
}

// captureConsole redirects colors output for the duration of the test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	colors.SetOutput(&buf, &buf)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &buf
}

func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic, got nil")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected panic message as string, got %T", r)
		}
		if !strings.Contains(msg, "dependency cannot be nil") {
			t.Fatalf("expected panic message to mention nil dependency, got %q", msg)
		}
	}()
	fn()
}
