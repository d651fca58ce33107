package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"assetshare/internal/cache"
	"assetshare/pkg/client"
	"assetshare/pkg/logger"
	"assetshare/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const storeTimeout = 5 * time.Second

var ErrNoSession = errors.New("no active session")

// AuthAPI is the part of the marketplace client the session drives.
type AuthAPI interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
}

// UnauthorizedSource is implemented by the authenticated HTTP client.
type UnauthorizedSource interface {
	OnUnauthorized(fn client.UnauthorizedFunc)
}

// Expiry is delivered to OnExpired subscribers. Cleared reports whether
// the stored token was the rejected one and has been removed.
type Expiry struct {
	Token   string
	Cleared bool
}

type ExpiredFunc func(ctx context.Context, e Expiry)

// Session owns the gateway's single login against the marketplace.
type Session struct {
	tokens      TokenStore
	auth        AuthAPI
	store       cache.Store
	invalidator *cache.Invalidator
	log         *logger.Logger

	mu        sync.RWMutex
	onExpired []ExpiredFunc
}

func New(tokens TokenStore, auth AuthAPI, store cache.Store, invalidator *cache.Invalidator, log *logger.Logger) *Session {
	return &Session{
		tokens:      tokens,
		auth:        auth,
		store:       store,
		invalidator: invalidator,
		log:         log,
	}
}

// Attach subscribes the session to 401 answers of the authenticated client.
func (s *Session) Attach(src UnauthorizedSource) {
	src.OnUnauthorized(s.handleUnauthorized)
}

func (s *Session) OnExpired(fn ExpiredFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpired = append(s.onExpired, fn)
}

// Token returns the stored bearer token, "" without a session.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.tokens.Load(ctx)
}

func (s *Session) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	resp, err := s.auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.start(ctx, resp); err != nil {
		return nil, err
	}
	s.log.Info("Logged in successfully", "user_id", userID(resp.User), "role", role(resp.User))
	return resp.User, nil
}

func (s *Session) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.start(ctx, resp); err != nil {
		return nil, err
	}
	s.log.Info("Registration successful", "user_id", userID(resp.User))
	return resp.User, nil
}

func (s *Session) start(ctx context.Context, resp *model.TokenResponse) error {
	if resp.AccessToken == "" {
		return fmt.Errorf("marketplace returned an empty access token")
	}
	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		return err
	}
	if resp.User != nil {
		cache.Seed(ctx, s.store, s.log, cache.For(cache.CurrentUser), resp.User)
	}
	return nil
}

// Logout ends the session upstream. Local state is only dropped once the
// marketplace confirmed.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		return err
	}
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	if err := s.invalidator.Apply(ctx, cache.Logout, 0); err != nil {
		s.log.Warn("Cache not fully cleared on logout", "error", err)
	}
	s.log.Info("Logged out successfully")
	return nil
}

// CurrentUser returns the signed-in user, or nil when there is no session
// or the user cannot be loaded.
func (s *Session) CurrentUser(ctx context.Context) *model.User {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load session token", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	user, err := cache.Fetch(ctx, s.store, s.log, cache.For(cache.CurrentUser), s.auth.CurrentUser)
	if err != nil {
		s.log.Warn("Failed to load current user", "error", err)
		return nil
	}
	return user
}

func (s *Session) Role(ctx context.Context) model.Role {
	if u := s.CurrentUser(ctx); u != nil {
		return u.Role
	}
	return ""
}

// Restore runs at startup. A stored JWT whose exp has passed is dropped;
// tokens that are not JWTs are kept and left to the marketplace to judge.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	if expired(token, time.Now()) {
		if err := s.tokens.Clear(ctx); err != nil {
			return false, err
		}
		s.log.Info("Dropped expired session token")
		return false, nil
	}

	s.log.Info("Restored session from token store")
	return true, nil
}

func expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// handleUnauthorized runs once per 401 answer. It drops the rejected token
// without touching a newer one, clears the cache and tells subscribers.
func (s *Session) handleUnauthorized(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	cleared, err := s.tokens.ClearIf(ctx, token)
	if err != nil {
		s.log.Error("Failed to clear rejected session token", "error", err)
	}

	if err := s.invalidator.Apply(ctx, cache.Unauthorized, 0); err != nil {
		s.log.Warn("Cache not fully cleared after unauthorized answer", "error", err)
	}

	if cleared {
		s.log.Warn("Session expired; stored token cleared")
	} else {
		s.log.Info("Unauthorized answer for a token that is no longer current")
	}

	s.mu.RLock()
	subscribers := append([]ExpiredFunc(nil), s.onExpired...)
	s.mu.RUnlock()
	for _, fn := range subscribers {
		fn(ctx, Expiry{Token: token, Cleared: cleared})
	}
}

func userID(u *model.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

func role(u *model.User) model.Role {
	if u == nil {
		return ""
	}
	return u.Role
}
