// Package gateway sits between the roster and the remote API. Every remote
// failure is absorbed here: reads and writes fall back to the local dataset and
// push dispatch reports a mock or offline outcome, so callers only ever see
// validation errors.
package gateway

import (
	"context"
	"errors"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/domain"
)

// API is the subset of apiclient.Client used by the gateways.
type API interface {
	ListClients(ctx context.Context, params apiclient.ListParams) (apiclient.ListResponse, error)
	CreateClient(ctx context.Context, draft domain.Draft) (domain.Client, error)
	SendPush(ctx context.Context, payload apiclient.PushPayload) (apiclient.PushResponse, error)
}

var _ API = (*apiclient.Client)(nil)

// requestIDOf extracts the correlation id of a failed API call for log lines.
func requestIDOf(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return apiErr.RequestID
	}
	return ""
}
