package gateway

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/colors"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/logging"
)

// fallbackPerPage mirrors the page size reported by the offline dataset.
const fallbackPerPage = 10

// FetchParams selects what to load. Column and Order are forwarded to the
// server; the roster re-applies filtering and sorting locally either way.
type FetchParams struct {
	Page   int
	Search string
	Column domain.Column
	Order  domain.SortOrder
}

// FetchResult is one loaded page.
type FetchResult struct {
	Clients      []domain.Client
	Total        int
	Page         int
	PerPage      int
	UsedFallback bool
}

// CreateResult is the outcome of a create call.
type CreateResult struct {
	Client       domain.Client
	UsedFallback bool
}

// ClientGateway loads and creates clients.
type ClientGateway struct {
	api    API
	source *fallback.Source
}

// NewClientGateway wires api to the fallback source. A nil source means fallback.Default().
func NewClientGateway(api API, source *fallback.Source) *ClientGateway {
	if api == nil {
		panic("NewClientGateway: api dependency cannot be nil")
	}
	if source == nil {
		source = fallback.Default()
	}
	return &ClientGateway{api: api, source: source}
}

func (g *ClientGateway) log() logging.Logger {
	return logging.Component("client_gateway")
}

// Fetch returns the server's clients, or the fallback roster when the server
// fails for any reason. The only error is a cancelled ctx during the fallback read.
func (g *ClientGateway) Fetch(ctx context.Context, params FetchParams) (FetchResult, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	resp, err := g.api.ListClients(ctx, apiclient.ListParams{
		Page:   page,
		Search: params.Search,
		Sort:   params.Column,
		Order:  params.Order,
	})
	if err == nil {
		items := resp.Items()
		if items == nil {
			items = []domain.Client{}
		}
		result := FetchResult{
			Clients: items,
			Total:   resp.Total,
			Page:    resp.Page,
			PerPage: resp.PerPage,
		}
		if result.Total == 0 {
			result.Total = len(items)
		}
		if result.Page == 0 {
			result.Page = page
		}
		return result, nil
	}

	g.log().Warn("client list unavailable, using fallback data",
		"kind", apiclient.KindOf(err).String(),
		"status", apiclient.StatusOf(err),
		"request_id", requestIDOf(err))
	colors.StructuredWarn("client_gateway", "fetch", "fallback", err, requestIDOf(err), nil)

	clients, ferr := g.source.List(ctx)
	if ferr != nil {
		return FetchResult{}, fmt.Errorf("fallback client list: %w", ferr)
	}
	return FetchResult{
		Clients:      clients,
		Total:        len(clients),
		Page:         1,
		PerPage:      fallbackPerPage,
		UsedFallback: true,
	}, nil
}

// Create validates draft and posts it. When the server fails the draft is
// recorded in the fallback source so the next Fetch that falls back includes it.
func (g *ClientGateway) Create(ctx context.Context, draft domain.Draft) (CreateResult, error) {
	if err := draft.Validate(); err != nil {
		return CreateResult{}, err
	}
	draft = draft.Normalize()

	created, err := g.api.CreateClient(ctx, draft)
	if err == nil {
		return CreateResult{Client: created}, nil
	}

	g.log().Warn("client create failed, recording offline",
		"kind", apiclient.KindOf(err).String(),
		"status", apiclient.StatusOf(err),
		"request_id", requestIDOf(err))
	colors.StructuredWarn("client_gateway", "create", "fallback", err, requestIDOf(err), nil)

	client, ferr := g.source.RecordCreatedClient(ctx, draft)
	if ferr != nil {
		return CreateResult{}, fmt.Errorf("fallback client create: %w", ferr)
	}
	return CreateResult{Client: client, UsedFallback: true}, nil
}
