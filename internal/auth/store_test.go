package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// countingExchanger hands out sequential tokens and counts exchanges.
type countingExchanger struct {
	calls int64
	err   error
	ttl   time.Duration
	delay time.Duration
}

func (e *countingExchanger) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	n := atomic.AddInt64(&e.calls, 1)
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if e.err != nil {
		return domain.Credential{}, e.err
	}
	ttl := e.ttl
	if ttl == 0 {
		ttl = time.Hour
	}
	return domain.Credential{
		AccessToken:  "token-" + string(rune('0'+n)),
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(ttl),
	}, nil
}

func testConfig() Config {
	return Config{
		ClientID:       "cid",
		ClientSecret:   "secret",
		RefreshToken:   "rtok",
		DeveloperToken: "dtok",
		RefreshMargin:  time.Minute,
	}
}

func TestCredential_RefreshesOnce(t *testing.T) {
	ex := &countingExchanger{}
	s := NewStore(testConfig(), ex, nil, nil)

	cred, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if cred.AccessToken == "" {
		t.Fatal("empty access token")
	}

	// Cached credential is reused, no second exchange.
	again, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if again.AccessToken != cred.AccessToken {
		t.Error("cached credential should be reused")
	}
	if atomic.LoadInt64(&ex.calls) != 1 {
		t.Errorf("expected 1 exchange, got %d", ex.calls)
	}
}

func TestCredential_ConcurrentCallersShareOneExchange(t *testing.T) {
	ex := &countingExchanger{delay: 20 * time.Millisecond}
	s := NewStore(testConfig(), ex, nil, nil)

	const workers = 32
	var wg sync.WaitGroup
	tokens := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cred, err := s.Credential(context.Background())
			tokens[i], errs[i] = cred.AccessToken, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if tokens[i] != tokens[0] {
			t.Fatalf("worker %d got a different token", i)
		}
	}
	if got := atomic.LoadInt64(&ex.calls); got != 1 {
		t.Errorf("expected exactly 1 exchange for %d concurrent callers, got %d", workers, got)
	}
}

func TestCredential_RefreshMarginTriggersEarly(t *testing.T) {
	// Tokens live 30s but the margin is 60s: every call refreshes.
	ex := &countingExchanger{ttl: 30 * time.Second}
	s := NewStore(testConfig(), ex, nil, nil)

	if _, err := s.Credential(context.Background()); err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if _, err := s.Credential(context.Background()); err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if got := atomic.LoadInt64(&ex.calls); got != 2 {
		t.Errorf("expected a refresh per call inside the margin, got %d", got)
	}
}

func TestCredential_ExchangeErrorPropagates(t *testing.T) {
	authErr := &Error{Code: "invalid_grant", Description: "Token has been expired or revoked."}
	ex := &countingExchanger{err: authErr}
	s := NewStore(testConfig(), ex, nil, nil)

	_, err := s.Credential(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var e *Error
	if !errors.As(err, &e) || e.Code != "invalid_grant" {
		t.Errorf("expected *Error invalid_grant, got %v", err)
	}
}

func TestInvalidate_ForcesRefresh(t *testing.T) {
	ex := &countingExchanger{}
	s := NewStore(testConfig(), ex, nil, nil)

	first, _ := s.Credential(context.Background())
	s.Invalidate()
	second, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if first.AccessToken == second.AccessToken {
		t.Error("invalidate should force a new token")
	}
	if got := atomic.LoadInt64(&ex.calls); got != 2 {
		t.Errorf("expected 2 exchanges, got %d", got)
	}
}

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	mu    sync.Mutex
	creds map[string]domain.Credential
}

func newMapCache() *mapCache { return &mapCache{creds: make(map[string]domain.Credential)} }

func (c *mapCache) LoadCredential(ctx context.Context, key string) (domain.Credential, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cred, ok := c.creds[key]
	return cred, ok, nil
}

func (c *mapCache) SaveCredential(ctx context.Context, key string, cred domain.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds[key] = cred
	return nil
}

func (c *mapCache) DeleteCredential(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.creds, key)
	return nil
}

func TestCredential_RestoredFromCache(t *testing.T) {
	cache := newMapCache()
	cache.creds["default"] = domain.Credential{
		AccessToken: "persisted-token",
		Expiry:      time.Now().Add(time.Hour),
	}

	ex := &countingExchanger{}
	s := NewStore(testConfig(), ex, cache, nil)

	cred, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if cred.AccessToken != "persisted-token" {
		t.Errorf("expected cache restore, got %q", cred.AccessToken)
	}
	if atomic.LoadInt64(&ex.calls) != 0 {
		t.Errorf("cache hit should skip the exchange, got %d calls", ex.calls)
	}
}

func TestInvalidate_PurgesExternalCache(t *testing.T) {
	// A token rejected upstream may still look unexpired. After Invalidate
	// the next fetch must exchange, not restore the rejected token from
	// the external cache.
	cache := newMapCache()
	cache.creds["default"] = domain.Credential{
		AccessToken: "rejected-token",
		Expiry:      time.Now().Add(time.Hour),
	}

	ex := &countingExchanger{}
	s := NewStore(testConfig(), ex, cache, nil)

	first, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if first.AccessToken != "rejected-token" {
		t.Fatalf("expected cache restore, got %q", first.AccessToken)
	}

	s.Invalidate()

	second, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if second.AccessToken == "rejected-token" {
		t.Error("invalidated token was restored from the external cache")
	}
	if got := atomic.LoadInt64(&ex.calls); got != 1 {
		t.Errorf("expected 1 exchange after invalidation, got %d", got)
	}
	if cache.creds["default"].AccessToken != second.AccessToken {
		t.Error("fresh credential should replace the purged cache entry")
	}
}

func TestCredential_StaleCacheEntryRefreshes(t *testing.T) {
	cache := newMapCache()
	cache.creds["default"] = domain.Credential{
		AccessToken: "stale-token",
		Expiry:      time.Now().Add(10 * time.Second), // inside the 60s margin
	}

	ex := &countingExchanger{}
	s := NewStore(testConfig(), ex, cache, nil)

	cred, err := s.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential failed: %v", err)
	}
	if cred.AccessToken == "stale-token" {
		t.Error("stale cache entry must not be served")
	}
	if atomic.LoadInt64(&ex.calls) != 1 {
		t.Errorf("expected refresh, got %d calls", ex.calls)
	}
	// The fresh credential is written back.
	if cache.creds["default"].AccessToken != cred.AccessToken {
		t.Error("refreshed credential should be persisted")
	}
}
