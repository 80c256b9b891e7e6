package mockserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, opts ...Option) (*httptest.Server, *fallback.Source) {
	t.Helper()
	src := fallback.NewSource(fallback.WithLatency(fallback.Latency{}))
	srv := httptest.NewServer(New(src, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv, src
}

func TestNewPanicsOnNilSource(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestListClientsThroughAPIClient(t *testing.T) {
	srv, _ := startServer(t)
	c := apiclient.New(srv.URL + DefaultPrefix)

	resp, err := c.ListClients(context.Background(), apiclient.ListParams{})
	require.NoError(t, err)
	assert.Len(t, resp.Items(), 5)
	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, DefaultPerPage, resp.PerPage)

	resp, err = c.ListClients(context.Background(), apiclient.ListParams{Search: "Петрова"})
	require.NoError(t, err)
	require.Len(t, resp.Items(), 1)
	assert.Equal(t, domain.ClientID("2"), resp.Items()[0].ID)

	resp, err = c.ListClients(context.Background(), apiclient.ListParams{Sort: domain.ColumnCreatedAt, Order: domain.SortOrderDesc})
	require.NoError(t, err)
	assert.Equal(t, []domain.ClientID{"5", "4", "3", "2", "1"}, domain.IDs(resp.Items()))
}

func TestListClientsPagination(t *testing.T) {
	srv, _ := startServer(t)

	res, err := http.Get(srv.URL + "/api/clients?page=2&per_page=2")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `"page":2`)
	assert.Contains(t, string(body), `"id":3`)
	assert.Contains(t, string(body), `"id":4`)
	assert.NotContains(t, string(body), `"id":5`)
	assert.NotEmpty(t, res.Header.Get(apiclient.RequestIDHeader))
}

func TestListClientsRejectsBadOrder(t *testing.T) {
	srv, _ := startServer(t)
	res, err := http.Get(srv.URL + "/api/clients?sort=name&order=sideways")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateClientIsListed(t *testing.T) {
	srv, src := startServer(t)
	c := apiclient.New(srv.URL + DefaultPrefix)

	created, err := c.CreateClient(context.Background(), domain.Draft{Name: "Ольга Смирнова", Email: "olga@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Len(t, src.CreatedClients(), 1)

	resp, err := c.ListClients(context.Background(), apiclient.ListParams{Search: "olga"})
	require.NoError(t, err)
	require.Len(t, resp.Items(), 1)
	assert.Equal(t, created.ID, resp.Items()[0].ID)
}

func TestCreateClientValidation(t *testing.T) {
	srv, src := startServer(t)
	c := apiclient.New(srv.URL + DefaultPrefix)

	_, err := c.CreateClient(context.Background(), domain.Draft{Name: " "})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apiclient.StatusOf(err))
	assert.Empty(t, src.CreatedClients())
}

func TestPush(t *testing.T) {
	srv, _ := startServer(t)
	c := apiclient.New(srv.URL + DefaultPrefix)

	resp, err := c.SendPush(context.Background(), apiclient.PushPayload{Title: "Hi", Message: "There", ClientIDs: []domain.ClientID{"1", "2"}})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.SentCount)

	resp, err = c.SendPush(context.Background(), apiclient.PushPayload{Title: "Hi", Message: "There"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestMalformedBody(t *testing.T) {
	srv, _ := startServer(t)
	res, err := http.Post(srv.URL+"/api/push", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLoginAndProtectedRoutes(t *testing.T) {
	srv, _ := startServer(t, WithCredentials("admin", "secret"), WithRequireAuth(true))

	anon := apiclient.New(srv.URL + DefaultPrefix)
	_, err := anon.ListClients(context.Background(), apiclient.ListParams{})
	assert.Equal(t, http.StatusUnauthorized, apiclient.StatusOf(err))

	_, err = anon.Login(context.Background(), apiclient.LoginRequest{Login: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
	assert.True(t, apiclient.IsForbiddenOrUnreachable(err))

	login, err := anon.Login(context.Background(), apiclient.LoginRequest{Login: "admin", Password: "secret"})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)

	authed := apiclient.New(srv.URL+DefaultPrefix, apiclient.WithHeaderProvider(apiclient.HeaderFunc(func() map[string]string {
		return map[string]string{"Authorization": "Bearer " + login.Token}
	})))
	resp, err := authed.ListClients(context.Background(), apiclient.ListParams{})
	require.NoError(t, err)
	assert.Len(t, resp.Items(), 5)

	forged := apiclient.New(srv.URL+DefaultPrefix, apiclient.WithHeaderProvider(apiclient.HeaderFunc(func() map[string]string {
		return map[string]string{"Authorization": "Bearer not-a-jwt"}
	})))
	_, err = forged.ListClients(context.Background(), apiclient.ListParams{})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
}

func TestExpiredTokenIsRefused(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	srv, _ := startServer(t, WithRequireAuth(true), WithTokenTTL(time.Minute), WithClock(func() time.Time { return now }))
	c := apiclient.New(srv.URL + DefaultPrefix)

	login, err := c.Login(context.Background(), apiclient.LoginRequest{Login: "admin", Password: "secret"})
	require.NoError(t, err)

	now = now.Add(time.Hour)
	authed := apiclient.New(srv.URL+DefaultPrefix, apiclient.WithHeaderProvider(apiclient.HeaderFunc(func() map[string]string {
		return map[string]string{"Authorization": "Bearer " + login.Token}
	})))
	_, err = authed.ListClients(context.Background(), apiclient.ListParams{})
	assert.Equal(t, http.StatusForbidden, apiclient.StatusOf(err))
}

func TestGatewaysAgainstMockServer(t *testing.T) {
	srv, _ := startServer(t)
	api := apiclient.New(srv.URL + DefaultPrefix)
	local := fallback.NewSource(fallback.WithLatency(fallback.Latency{}))

	clients := gateway.NewClientGateway(api, local)
	res, err := clients.Fetch(context.Background(), gateway.FetchParams{Search: "ИП"})
	require.NoError(t, err)
	assert.False(t, res.UsedFallback)
	assert.Len(t, res.Clients, 2)

	out, err := gateway.NewNotificationGateway(api).Send(context.Background(), gateway.PushRequest{
		Title: "t", Message: "m", ClientIDs: domain.IDs(res.Clients),
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.ModeServer, out.Mode())
	assert.Equal(t, 2, out.SentCount)
}

func TestCustomPrefixAndHealth(t *testing.T) {
	srv, _ := startServer(t, WithPrefix("v1"))

	res, err := http.Get(srv.URL + "/v1/clients")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	src := fallback.NewSource(fallback.WithLatency(fallback.Latency{}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(src).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
