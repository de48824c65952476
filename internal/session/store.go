// Package session owns the desk's tenant context and authenticated session.
// The pair is process-wide: one desk process serves one signed-in operator.
// Writers are user actions (sign in, sign out, tenant switch); readers take
// value snapshots, so an in-flight call keeps the headers it started with.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alsafar-travels/umrahdesk/internal/backend"
	"github.com/alsafar-travels/umrahdesk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Storage persists the session blob across desk restarts.
type Storage interface {
	Load(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, sess domain.Session) error
	Delete(ctx context.Context) error
}

// ProfileChecker revalidates a rehydrated token against the backend.
type ProfileChecker interface {
	Me(ctx context.Context) (backend.Profile, error)
}

// RehydrateOptions control the startup revalidation call.
type RehydrateOptions struct {
	Revalidate bool
	// ClearOnFailure drops the session when revalidation is rejected.
	// Default is to keep it: the desk degrades gracefully and the next
	// authenticated call surfaces the failure.
	ClearOnFailure bool
}

type Store struct {
	mu      sync.RWMutex
	sess    domain.Session
	tenant  string
	storage Storage
	onReset []func()
	logger  *zap.Logger
}

func NewStore(storage Storage, defaultTenant string, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		tenant:  NormalizeTenant(defaultTenant),
		logger:  logger,
	}
}

// NormalizeTenant lower-cases and trims the tenant id, defaulting to public.
func NormalizeTenant(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "public"
	}
	return id
}

// Headers returns the snapshot consumed by every outbound backend call.
func (s *Store) Headers() backend.Headers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return backend.Headers{TenantID: s.tenant, Token: s.sess.Token}
}

// Session returns a copy of the current session.
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// Tenant returns the active tenant id.
func (s *Store) Tenant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

// OnReset registers a hook fired after logout and tenant switches so
// dependent views drop data belonging to the previous user or tenant.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	s.onReset = append(s.onReset, fn)
	s.mu.Unlock()
}

// SetTenant switches the active tenant. Views tied to the previous tenant
// are invalidated through the reset hooks.
func (s *Store) SetTenant(id string) {
	normalized := NormalizeTenant(id)
	s.mu.Lock()
	if s.tenant == normalized {
		s.mu.Unlock()
		return
	}
	s.tenant = normalized
	hooks := append([]func(){}, s.onReset...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// SetSession overwrites every session field from a successful auth response
// and persists the result. A failed call never reaches this method, so the
// prior session is only ever replaced wholesale.
func (s *Store) SetSession(ctx context.Context, sess domain.Session) error {
	sess.TenantID = NormalizeTenant(sess.TenantID)

	s.mu.Lock()
	s.sess = sess
	s.tenant = sess.TenantID
	s.mu.Unlock()

	if err := s.storage.Save(ctx, sess); err != nil {
		s.logger.Warn("session persisted state not saved", zap.Error(err))
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout clears the session, removes the persisted blob and fires the reset
// hooks so no previous-user data stays reachable. The tenant survives.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.sess = domain.Session{}
	hooks := append([]func(){}, s.onReset...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if err := s.storage.Delete(ctx); err != nil {
		s.logger.Warn("persisted session not removed", zap.Error(err))
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// Rehydrate loads the persisted session at startup and, when enabled, issues
// one revalidation call. A rejected revalidation is swallowed unless
// ClearOnFailure asks for the strict policy.
func (s *Store) Rehydrate(ctx context.Context, checker ProfileChecker, opts RehydrateOptions) error {
	sess, ok, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load persisted session: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	s.sess = sess
	if sess.TenantID != "" {
		s.tenant = NormalizeTenant(sess.TenantID)
	}
	s.mu.Unlock()

	if sess.Token == "" {
		return nil
	}

	expired := false
	if exp, err := tokenExpiry(sess.Token); err == nil && exp.Before(time.Now()) {
		expired = true
		s.logger.Warn("rehydrated token is past its expiry claim", zap.Time("exp", exp))
	}

	if !opts.Revalidate || checker == nil {
		return nil
	}

	if expired {
		// The backend would reject the token anyway; apply the
		// revalidation policy without the round trip.
		if opts.ClearOnFailure {
			s.logger.Info("expired session cleared without revalidation")
			return s.Logout(ctx)
		}
		return nil
	}

	if _, err := checker.Me(ctx); err != nil {
		if opts.ClearOnFailure {
			s.logger.Info("session revalidation rejected, clearing session", zap.Error(err))
			return s.Logout(ctx)
		}
		s.logger.Warn("session revalidation rejected, keeping session", zap.Error(err))
	}
	return nil
}

// tokenExpiry peeks at the bearer token's exp claim without verifying the
// signature; verification is the backend's job.
func tokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("no exp claim")
	}
	return exp.Time, nil
}
