package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
)

// Client wraps Redis operations for the credential cache.
type Client struct {
	rdb *redis.Client
	now func() time.Time
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb, now: time.Now}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health checks if Redis is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func credentialKey(id string) string {
	return fmt.Sprintf("adsmcp:credential:%s", id)
}

// cachedCredential is the wire form stored in Redis. The refresh token never
// leaves process memory, so only the short-lived access token is cached.
type cachedCredential struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
	CustomerID  string    `json:"customer_id,omitempty"`
}

// SaveCredential stores a credential with a TTL matching its remaining
// lifetime. Already-expired credentials are not written.
func (c *Client) SaveCredential(ctx context.Context, key string, cred domain.Credential) error {
	ttl := cred.TTLAt(c.now())
	if ttl <= 0 {
		return nil
	}

	payload, err := json.Marshal(cachedCredential{
		AccessToken: cred.AccessToken,
		Expiry:      cred.Expiry,
		CustomerID:  cred.CustomerID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	if err := c.rdb.Set(ctx, credentialKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// LoadCredential retrieves a cached credential. The second return value is
// false when no entry exists.
func (c *Client) LoadCredential(ctx context.Context, key string) (domain.Credential, bool, error) {
	val, err := c.rdb.Get(ctx, credentialKey(key)).Bytes()
	if err == redis.Nil {
		return domain.Credential{}, false, nil
	}
	if err != nil {
		return domain.Credential{}, false, fmt.Errorf("failed to load credential: %w", err)
	}

	var cached cachedCredential
	if err := json.Unmarshal(val, &cached); err != nil {
		return domain.Credential{}, false, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	return domain.Credential{
		AccessToken: cached.AccessToken,
		Expiry:      cached.Expiry,
		CustomerID:  cached.CustomerID,
	}, true, nil
}

// DeleteCredential removes a cached credential, e.g. after the upstream API
// rejects the token.
func (c *Client) DeleteCredential(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, credentialKey(key)).Err()
}
