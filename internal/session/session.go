package session

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quillcms/console/internal/logger"
)

// DefaultUser is the operator name used when a request carries none.
// The original UI kept a single token under one fixed storage key; the
// console keeps that behavior but allows multiple named operators.
const DefaultUser = "default"

// claimsCacheTTL bounds how long a parsed role is reused before the token is
// parsed again.
const claimsCacheTTL = 5 * time.Minute

// Session is the explicit per-request session context. It replaces the
// original's scattered reads of a global token cache: one owner (Manager)
// resolves it, the middleware injects it, handlers consume it.
type Session struct {
	User  string
	Token string // opaque bearer string; empty = signed out
	Role  string // admin | collaborator | user, gating only
}

// Authenticated reports whether the session carries a token. No expiry
// handling: a stale token simply fails the next privileged upstream call.
func (s *Session) Authenticated() bool { return s != nil && s.Token != "" }

// TokenStore persists bearer tokens between console restarts.
type TokenStore interface {
	SaveToken(ctx context.Context, user, token string) error
	GetToken(ctx context.Context, user string) (string, error)
	DeleteToken(ctx context.Context, user string) error
}

// Manager owns session lifecycle: sign-in stores the token, resolve loads it
// and derives the role, sign-out invalidates it.
type Manager struct {
	store  TokenStore
	claims *gocache.Cache // token -> role
	logger logger.Logger
}

func NewManager(store TokenStore, log logger.Logger) *Manager {
	return &Manager{
		store:  store,
		claims: gocache.New(claimsCacheTTL, 2*claimsCacheTTL),
		logger: log,
	}
}

// SignIn stores the operator's bearer token.
func (m *Manager) SignIn(ctx context.Context, user, token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if user == "" {
		user = DefaultUser
	}
	if err := m.store.SaveToken(ctx, user, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	m.logger.Info("operator signed in",
		logger.String("user", user),
		logger.String("role", m.role(token)))
	return nil
}

// SignOut drops the stored token.
func (m *Manager) SignOut(ctx context.Context, user string) error {
	if user == "" {
		user = DefaultUser
	}
	if err := m.store.DeleteToken(ctx, user); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	m.logger.Info("operator signed out", logger.String("user", user))
	return nil
}

// Resolve builds the session for a request. A missing token is not an error:
// the session is simply unauthenticated and privileged calls will fail
// upstream.
func (m *Manager) Resolve(ctx context.Context, user string) *Session {
	if user == "" {
		user = DefaultUser
	}
	token, err := m.store.GetToken(ctx, user)
	if err != nil {
		m.logger.Warn("failed to load session token",
			logger.String("user", user),
			logger.Error(err))
		return &Session{User: user, Role: RoleUser}
	}
	if token == "" {
		return &Session{User: user, Role: RoleUser}
	}
	return &Session{User: user, Token: token, Role: m.role(token)}
}

func (m *Manager) role(token string) string {
	if cached, ok := m.claims.Get(token); ok {
		if role, ok := cached.(string); ok {
			return role
		}
	}
	role := ParseRole(token)
	m.claims.SetDefault(token, role)
	return role
}
