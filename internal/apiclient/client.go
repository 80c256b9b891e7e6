// Package apiclient is the HTTP client for the remote client-management API.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/cristianoliveira/pushdesk/internal/version"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is used when api_url is not configured.
	DefaultBaseURL = "http://localhost:8080/api"
	// DefaultTimeout bounds every request when request_timeout is not configured.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries the per-call correlation id.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 4 << 20

	pathClients = "/clients"
	pathPush    = "/push"
	pathLogin   = "/test-auth-only"
)

// HeaderProvider supplies authorization headers for each request.
type HeaderProvider interface {
	AuthHeaders() map[string]string
}

// HeaderFunc adapts a function to HeaderProvider.
type HeaderFunc func() map[string]string

func (f HeaderFunc) AuthHeaders() map[string]string { return f() }

// Client talks JSON to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	headers   HeaderProvider
	requestID func() string
	logger    logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHeaderProvider attaches authorization headers to every request except login.
func WithHeaderProvider(p HeaderProvider) Option {
	return func(c *Client) {
		c.headers = p
	}
}

// WithRequestIDFunc overrides the X-Request-ID generator.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// WithLogger sets the logger; by default the global logger is used at call time.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for baseURL, e.g. "https://host/api".
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds a client from api_url and request_timeout.
func NewFromConfig(headers HeaderProvider, opts ...Option) *Client {
	base := []Option{
		WithTimeout(config.GetDuration("request_timeout", DefaultTimeout)),
		WithHeaderProvider(headers),
	}
	return New(config.Get("api_url", DefaultBaseURL), append(base, opts...)...)
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListParams are the query parameters of GET /clients.
type ListParams struct {
	Page   int
	Search string
	Sort   domain.Column
	Order  domain.SortOrder
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	page := p.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if s := strings.TrimSpace(p.Search); s != "" {
		v.Set("search", s)
	}
	if p.Sort != "" {
		v.Set("sort", string(p.Sort))
		order := p.Order
		if order == "" {
			order = domain.SortOrderAsc
		}
		v.Set("order", string(order))
	}
	return v
}

// ListResponse is the body of GET /clients. Servers put the rows under either
// "data" or "clients".
type ListResponse struct {
	Data    []domain.Client `json:"data,omitempty"`
	Clients []domain.Client `json:"clients,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// Items returns the rows regardless of which key carried them.
func (r ListResponse) Items() []domain.Client {
	if r.Data != nil {
		return r.Data
	}
	return r.Clients
}

// PushPayload is the body of POST /push.
type PushPayload struct {
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	ClientIDs []domain.ClientID `json:"client_ids"`
}

// PushResponse is the answer of POST /push.
type PushResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SentCount int    `json:"sent_count"`
}

// LoginRequest is the body of POST /test-auth-only.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse is the answer of POST /test-auth-only.
type LoginResponse struct {
	Token   string `json:"token"`
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListClients fetches one page of clients.
func (c *Client) ListClients(ctx context.Context, params ListParams) (ListResponse, error) {
	var out ListResponse
	err := c.do(ctx, call{op: "list clients", method: http.MethodGet, path: pathClients, query: params.values(), auth: true}, &out)
	return out, err
}

// CreateClient posts a new client and returns the server's record.
func (c *Client) CreateClient(ctx context.Context, draft domain.Draft) (domain.Client, error) {
	var out domain.Client
	err := c.do(ctx, call{op: "create client", method: http.MethodPost, path: pathClients, body: draft, auth: true}, &out)
	return out, err
}

// SendPush asks the server to deliver a push notification.
func (c *Client) SendPush(ctx context.Context, payload PushPayload) (PushResponse, error) {
	var out PushResponse
	err := c.do(ctx, call{op: "send push", method: http.MethodPost, path: pathPush, body: payload, auth: true}, &out)
	return out, err
}

// Login exchanges credentials for a token. No authorization header is sent.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: pathLogin, body: req}, &out)
	return out, err
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

func (c *Client) log() logging.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.Component("apiclient")
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	requestID := c.requestID()
	fail := func(kind Kind, status int, err error) *Error {
		return &Error{Op: cl.op, Kind: kind, Status: status, RequestID: requestID, Err: err}
	}

	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("api %s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return fail(KindTransport, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(RequestIDHeader, requestID)
	if cl.auth && c.headers != nil {
		for k, v := range c.headers.AuthHeaders() {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log().Warn("request failed", "op", cl.op, "request_id", requestID, "error", err.Error())
		return fail(KindTransport, 0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(KindTransport, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	c.log().Debug("request done",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed_ms", time.Since(start).Milliseconds())

	html := looksLikeHTML(resp.Header.Get("Content-Type"), payload)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e := fail(KindAuthorization, resp.StatusCode, nil)
		e.HTML = html
		return e
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		e := fail(KindUnexpected, resp.StatusCode, nil)
		e.HTML = html
		return e
	case html:
		e := fail(KindUnexpected, resp.StatusCode, fmt.Errorf("html payload"))
		e.HTML = true
		return e
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fail(KindUnexpected, resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

// looksLikeHTML detects web pages served where JSON was expected.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
