package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
	"github.com/grantweston/google-ads-mcp-complete/internal/metrics"
)

// Cache persists an access token across process restarts so a restart does
// not force a redundant refresh exchange. Implementations may be absent.
type Cache interface {
	LoadCredential(ctx context.Context, key string) (domain.Credential, bool, error)
	SaveCredential(ctx context.Context, key string, cred domain.Credential) error
	DeleteCredential(ctx context.Context, key string) error
}

// Store caches the current Credential and refreshes it on demand.
//
// At most one refresh exchange is in flight at a time: concurrent callers
// that find the cached credential stale await the same exchange instead of
// issuing duplicates, which could invalidate tokens already handed to other
// in-flight operations.
type Store struct {
	cfg       Config
	exchanger Exchanger
	cache     Cache // optional
	log       *slog.Logger
	now       func() time.Time

	mu    sync.RWMutex
	cred  domain.Credential
	group singleflight.Group
}

// NewStore creates a credential store around the given exchanger.
// cache may be nil.
func NewStore(cfg Config, exchanger Exchanger, cache Cache, log *slog.Logger) *Store {
	if cfg.RefreshMargin <= 0 {
		cfg.RefreshMargin = defaultRefreshMargin
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		cfg:       cfg,
		exchanger: exchanger,
		cache:     cache,
		log:       log,
		now:       time.Now,
	}
}

// Credential returns a credential guaranteed to stay valid for at least the
// configured refresh margin, refreshing first when needed. A failed refresh
// is surfaced immediately as *Error; it is never retried here.
func (s *Store) Credential(ctx context.Context) (domain.Credential, error) {
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()

	if cred.ValidAt(s.now(), s.cfg.RefreshMargin) {
		return cred, nil
	}

	// The refresh runs detached from any single caller's context so a
	// cancelled waiter cannot kill the exchange other waiters share.
	ch := s.group.DoChan("refresh", func() (any, error) {
		return s.refresh()
	})

	select {
	case <-ctx.Done():
		return domain.Credential{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Credential{}, res.Err
		}
		return res.Val.(domain.Credential), nil
	}
}

// Invalidate drops the cached credential so the next call refreshes. The
// external cache entry is purged too: a token rejected upstream must not be
// restored on the next refresh.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cred = domain.Credential{}
	s.mu.Unlock()

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cache.DeleteCredential(ctx, s.cacheKey()); err != nil {
			s.log.Warn("credential cache purge failed", "error", err)
		}
	}
}

// Expiry returns the cached credential's expiry, zero when none is cached.
func (s *Store) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.Expiry
}

func (s *Store) refresh() (domain.Credential, error) {
	// Another waiter may have finished a refresh between our staleness
	// check and entering the singleflight group.
	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()
	if cred.ValidAt(s.now(), s.cfg.RefreshMargin) {
		return cred, nil
	}

	timeout := s.cfg.ExchangeTimeout
	if timeout <= 0 {
		timeout = defaultExchangeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// A previously persisted token may still be fresh enough.
	if s.cache != nil && cred.AccessToken == "" {
		if cached, ok, err := s.cache.LoadCredential(ctx, s.cacheKey()); err != nil {
			s.log.Warn("credential cache read failed", "error", err)
		} else if ok && cached.ValidAt(s.now(), s.cfg.RefreshMargin) {
			cached.RefreshToken = s.cfg.RefreshToken
			s.store(cached)
			s.log.Debug("credential restored from cache", "expiry", cached.Expiry)
			return cached, nil
		}
	}

	cred, err := s.exchanger.Refresh(ctx, s.cfg.RefreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("error").Inc()
		s.log.Error("credential refresh failed", "error", err)
		return domain.Credential{}, err
	}
	if cred.CustomerID == "" {
		cred.CustomerID = s.cfg.LoginCustomerID
	}
	s.store(cred)

	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	metrics.CredentialExpirySeconds.Set(cred.TTLAt(s.now()).Seconds())
	s.log.Info("credential refreshed", "expiry", cred.Expiry)

	if s.cache != nil {
		if err := s.cache.SaveCredential(ctx, s.cacheKey(), cred); err != nil {
			s.log.Warn("credential cache write failed", "error", err)
		}
	}
	return cred, nil
}

func (s *Store) store(cred domain.Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}

func (s *Store) cacheKey() string {
	if s.cfg.LoginCustomerID != "" {
		return s.cfg.LoginCustomerID
	}
	return "default"
}
