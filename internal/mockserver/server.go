// Package mockserver is a local stand-in for the remote client-management API.
// It serves the same endpoints over a fallback source so the real HTTP path of
// the console can be exercised without a backend.
package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	// DefaultPrefix is the path the API is mounted under.
	DefaultPrefix = "/api"
	// DefaultPerPage is the page size used when the request gives none.
	DefaultPerPage = 10

	pushSentMessage = "Push notification sent successfully"
	maxRequestBytes = 1 << 20
)

// Server is the stub API. It is safe for concurrent use.
type Server struct {
	source      *fallback.Source
	prefix      string
	login       string
	password    string
	requireAuth bool
	signingKey  []byte
	tokenTTL    time.Duration
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithCredentials restricts login to one login and password pair.
func WithCredentials(login, password string) Option {
	return func(s *Server) {
		s.login = login
		s.password = password
	}
}

// WithRequireAuth makes the client and push endpoints demand a token issued
// by this server.
func WithRequireAuth(require bool) Option {
	return func(s *Server) {
		s.requireAuth = require
	}
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithPrefix mounts the API under prefix instead of /api.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = "/" + strings.Trim(prefix, "/")
		if s.prefix == "/" {
			s.prefix = ""
		}
	}
}

// WithClock overrides the time source used for tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a Server over source. It panics if source is nil.
func New(source *fallback.Source, opts ...Option) *Server {
	if source == nil {
		panic("mockserver.New: source dependency cannot be nil")
	}
	s := &Server{
		source:     source,
		prefix:     DefaultPrefix,
		signingKey: []byte(uuid.NewString()),
		tokenTTL:   12 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, logMiddleware)

	api := r
	if s.prefix != "" {
		api = r.PathPrefix(s.prefix).Subrouter()
	}
	api.HandleFunc("/test-auth-only", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	protected.HandleFunc("/clients", s.handleCreateClient).Methods(http.MethodPost)
	protected.HandleFunc("/push", s.handlePush).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logging.Component("mockserver").Info("listening", "addr", addr, "prefix", s.prefix)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mock server: shutdown: %w", err)
		}
		return nil
	}
}

type listResponse struct {
	Data    []domain.Client `json:"data"`
	Success bool            `json:"success"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := positiveInt(q.Get("page"), 1)
	perPage := positiveInt(q.Get("per_page"), DefaultPerPage)

	clients := domain.FilterClients(s.source.Clients(), q.Get("search"))
	if col := domain.Column(q.Get("sort")); col.IsSortable() {
		order, err := domain.ParseSortOrder(q.Get("order"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}
		clients = domain.SortClients(clients, col, order)
	}

	total := len(clients)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:    clients[start:end],
		Success: true,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if !decode(w, r, &draft) {
		return
	}
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: err.Error()})
		return
	}
	client, err := s.source.RecordCreatedClient(r.Context(), draft)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var payload apiclient.PushPayload
	if !decode(w, r, &payload) {
		return
	}
	if err := domain.ValidatePush(payload.Title, payload.Message); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiclient.PushResponse{Message: err.Error()})
		return
	}
	if len(payload.ClientIDs) == 0 {
		writeJSON(w, http.StatusOK, apiclient.PushResponse{Message: "no recipients"})
		return
	}
	writeJSON(w, http.StatusOK, apiclient.PushResponse{
		Success:   true,
		Message:   pushSentMessage,
		SentCount: len(payload.ClientIDs),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req apiclient.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if s.login != "" && (req.Login != s.login || req.Password != s.password) {
		writeJSON(w, http.StatusForbidden, messageResponse{Message: "invalid credentials"})
		return
	}
	if err := domain.ValidateCredentials(req.Login, req.Password); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: err.Error()})
		return
	}

	token, err := s.issueToken(req.Login)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "could not issue token"})
		return
	}
	ok := true
	writeJSON(w, http.StatusOK, apiclient.LoginResponse{Token: token, Success: &ok, Message: "authenticated"})
}

func (s *Server) issueToken(login string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   login,
		Issuer:    "pushdesk-mock",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Server) verifyToken(raw string) error {
	_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	return err
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAuth {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "missing bearer token"})
			return
		}
		if err := s.verifyToken(raw); err != nil {
			writeJSON(w, http.StatusForbidden, messageResponse{Message: "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(apiclient.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(apiclient.RequestIDHeader, id)
		}
		w.Header().Set(apiclient.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Component("mockserver").Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get(apiclient.RequestIDHeader),
			"elapsed_ms", time.Since(start).Milliseconds())
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Component("mockserver").Warn("encode response", "error", err.Error())
	}
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
