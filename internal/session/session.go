// Package session keeps the operator's authentication state: the bearer token
// obtained from the API and the login it belongs to. The state is persisted as
// a private JSON file so consecutive CLI invocations share it.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/pushdesk/internal/apiclient"
	"github.com/cristianoliveira/pushdesk/internal/config"
	"github.com/cristianoliveira/pushdesk/internal/domain"
	"github.com/cristianoliveira/pushdesk/internal/fallback"
	"github.com/cristianoliveira/pushdesk/internal/logging"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// FileName is the session file inside state_dir.
const FileName = "session.json"

var (
	// ErrLoginRejected is returned when the server answered but refused the credentials.
	ErrLoginRejected = errors.New("login rejected")
	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// User is the signed-in operator.
type User struct {
	Login string `json:"login"`
	Token string `json:"token"`
	// Mock is set when the token was issued locally instead of by the server.
	Mock     bool      `json:"mock,omitempty"`
	SignedAt time.Time `json:"signed_at"`
}

// Authenticator exchanges credentials for a token. *apiclient.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, req apiclient.LoginRequest) (apiclient.LoginResponse, error)
}

// Service is the authentication state. It is safe for concurrent use.
type Service struct {
	api        Authenticator
	path       string
	production bool
	latency    time.Duration
	now        func() time.Time

	mu      sync.RWMutex
	current *User

	ready     chan struct{}
	readyOnce sync.Once
}

// Option configures a Service.
type Option func(*Service)

// WithPath sets the session file. An empty path keeps the session in memory.
func WithPath(path string) Option {
	return func(s *Service) {
		s.path = path
	}
}

// WithProduction disables locally issued tokens.
func WithProduction(production bool) Option {
	return func(s *Service) {
		s.production = production
	}
}

// WithLoginLatency sets the delay before a locally issued token is returned.
func WithLoginLatency(d time.Duration) Option {
	return func(s *Service) {
		s.latency = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// DefaultPath returns state_dir/session.json, or "" when state_dir is unset.
func DefaultPath() string {
	dir := config.Get("state_dir", "")
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// NewService creates a Service. It panics if api is nil.
func NewService(api Authenticator, opts ...Option) *Service {
	if api == nil {
		panic("session.NewService: authenticator dependency cannot be nil")
	}
	s := &Service{
		api:     api,
		latency: fallback.DefaultLatency().Login,
		now:     time.Now,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready is closed once Restore has run.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Restore loads the persisted session. Unreadable, inconsistent or expired
// sessions are removed. Ready is closed in every case.
func (s *Service) Restore() error {
	defer s.markReady()
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		logging.Component("session").Warn("discarding unreadable session", "error", err.Error())
		return s.remove()
	}
	if reason := s.invalidReason(&u); reason != "" {
		logging.Component("session").Warn("discarding session", "reason", reason)
		return s.remove()
	}

	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	return nil
}

// invalidReason explains why u cannot be used, or returns "".
func (s *Service) invalidReason(u *User) string {
	switch {
	case u.Token == "" && u.Login == "":
		return "empty session"
	case u.Token == "":
		return "user without token"
	case u.Login == "":
		return "token without user"
	case tokenExpired(u.Token, s.now()):
		return "token expired"
	}
	return ""
}

// tokenExpired reports whether token is a JWT whose exp claim lies before now.
// Opaque tokens never expire.
func tokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// Login validates the credentials and asks the server for a token. Outside
// production a forbidden or unreachable server yields a locally issued token.
func (s *Service) Login(ctx context.Context, login, password string) (User, error) {
	if err := domain.ValidateCredentials(login, password); err != nil {
		return User{}, err
	}
	login = strings.TrimSpace(login)
	log := logging.Component("session")

	resp, err := s.api.Login(ctx, apiclient.LoginRequest{Login: login, Password: password})
	if err != nil {
		if s.production || !apiclient.IsForbiddenOrUnreachable(err) {
			log.Warn("login failed", "login", login, "error", err.Error())
			return User{}, fmt.Errorf("login: %w", err)
		}
		log.Info("server unavailable, issuing local token", "login", login, "status", apiclient.StatusOf(err))
		if err := fallback.Delay(ctx, s.latency); err != nil {
			return User{}, err
		}
		return s.establish(User{Login: login, Token: mockToken(s.now()), Mock: true})
	}

	if resp.Success != nil && !*resp.Success {
		return User{}, rejected(resp.Message)
	}
	if resp.Token == "" {
		return User{}, rejected("server returned no token")
	}
	return s.establish(User{Login: login, Token: resp.Token})
}

func rejected(message string) error {
	if message == "" {
		return ErrLoginRejected
	}
	return fmt.Errorf("%w: %s", ErrLoginRejected, message)
}

func (s *Service) establish(u User) (User, error) {
	u.SignedAt = s.now().UTC()
	if err := s.persist(u); err != nil {
		return User{}, err
	}
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	logging.Component("session").Info("signed in", "login", u.Login, "mock", u.Mock)
	return u, nil
}

func (s *Service) persist(u User) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), config.FileModeDir); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, config.FileModePrivate); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Service) remove() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Logout forgets the session.
func (s *Service) Logout() error {
	if u, ok := s.CurrentUser(); ok {
		logging.Component("session").Info("signed out", "login", u.Login)
	}
	return s.remove()
}

// IsAuthenticated reports whether a usable session exists. A session that has
// become invalid, for example by token expiry, is removed.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	u := s.current
	s.mu.RUnlock()
	if u == nil {
		return false
	}
	if reason := s.invalidReason(u); reason != "" {
		logging.Component("session").Warn("discarding session", "reason", reason)
		_ = s.remove()
		return false
	}
	return true
}

// CurrentUser returns the signed-in user.
func (s *Service) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return User{}, false
	}
	return *s.current, true
}

// AuthHeaders returns the Authorization header for the current session, or
// an empty map.
func (s *Service) AuthHeaders() map[string]string {
	u, ok := s.CurrentUser()
	if !ok || u.Token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + u.Token}
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// mockToken returns "mock-token-<unix ms>-<9 random base36 chars>".
func mockToken(now time.Time) string {
	var b strings.Builder
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for range 9 {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(tokenAlphabet[n.Int64()])
	}
	return fmt.Sprintf("mock-token-%d-%s", now.UnixMilli(), b.String())
}
