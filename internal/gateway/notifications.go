package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/logging"
)

const (
	// MockSentMessage is reported when a push is simulated outside production.
	MockSentMessage = "Push notification sent successfully (mock)"
	// OfflineSentMessage is reported when the server failed and the push is
	// assumed delivered.
	OfflineSentMessage = "Push notification sent successfully (offline mode)"
)

// PushRequest is a push notification addressed to a set of clients.
type PushRequest struct {
	Title     string
	Message   string
	ClientIDs []domain.ClientID
}

// Validate checks title, message and recipients.
func (r PushRequest) Validate() error {
	if err := domain.ValidatePush(r.Title, r.Message); err != nil {
		return err
	}
	if len(r.ClientIDs) == 0 {
		return domain.ErrNoSelection
	}
	return nil
}

// Outcome is the result of a dispatch.
type Outcome struct {
	Success   bool
	SentCount int
	Message   string
	// Offline is set when the server failed and delivery was assumed.
	Offline bool
	// Mock is set when delivery was simulated outside production.
	Mock bool
}

// Delivery modes reported by Outcome.Mode.
const (
	ModeServer  = "server"
	ModeMock    = "mock"
	ModeOffline = "offline"
)

// Mode names how the outcome was produced.
func (o Outcome) Mode() string {
	switch {
	case o.Mock:
		return ModeMock
	case o.Offline:
		return ModeOffline
	default:
		return ModeServer
	}
}

// NotificationGateway dispatches push notifications.
type NotificationGateway struct {
	api        API
	production bool
	latency    time.Duration
}

// NotificationOption configures a NotificationGateway.
type NotificationOption func(*NotificationGateway)

// WithProduction disables the simulated outcome for unreachable or forbidden servers.
func WithProduction(production bool) NotificationOption {
	return func(g *NotificationGateway) {
		g.production = production
	}
}

// WithPushLatency sets the simulated delay of a mock dispatch.
func WithPushLatency(d time.Duration) NotificationOption {
	return func(g *NotificationGateway) {
		g.latency = d
	}
}

// NewNotificationGateway creates a gateway over api.
func NewNotificationGateway(api API, opts ...NotificationOption) *NotificationGateway {
	if api == nil {
		panic("NewNotificationGateway: api dependency cannot be nil")
	}
	g := &NotificationGateway{api: api, latency: fallback.DefaultLatency().Push}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *NotificationGateway) log() logging.Logger {
	return logging.Component("notification_gateway")
}

// Send validates req and posts it. Validation failures are returned as errors;
// server failures never are.
func (g *NotificationGateway) Send(ctx context.Context, req PushRequest) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	count := len(req.ClientIDs)

	resp, err := g.api.SendPush(ctx, apiclient.PushPayload{
		Title:     req.Title,
		Message:   req.Message,
		ClientIDs: req.ClientIDs,
	})
	if err == nil {
		sent := resp.SentCount
		if sent == 0 && resp.Success {
			sent = count
		}
		return Outcome{Success: resp.Success, SentCount: sent, Message: resp.Message}, nil
	}

	requestID := requestIDOf(err)
	if !g.production && apiclient.IsForbiddenOrUnreachable(err) {
		g.log().Info("push simulated", "recipients", count, "request_id", requestID)
		colors.StructuredInfo("notification_gateway", "send", "mock", err, requestID, map[string]interface{}{"recipients": count})
		if derr := fallback.Delay(ctx, g.latency); derr != nil {
			return Outcome{}, fmt.Errorf("mock push: %w", derr)
		}
		return Outcome{Success: true, SentCount: count, Message: MockSentMessage, Mock: true}, nil
	}

	g.log().Warn("push failed, reporting offline delivery",
		"kind", apiclient.KindOf(err).String(),
		"status", apiclient.StatusOf(err),
		"request_id", requestID)
	colors.StructuredWarn("notification_gateway", "send", "offline", err, requestID, map[string]interface{}{"recipients": count})
	return Outcome{Success: true, SentCount: count, Message: OfflineSentMessage, Offline: true}, nil
}
