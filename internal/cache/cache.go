package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a Redis cache that fails safe: an unreachable server reads as a miss and
// writes are dropped. A nil *Client behaves the same way.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New creates a client whose keys all live under prefix. The connection is made lazily.
func New(addr, password string, db int, prefix string) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		prefix: prefix,
	}
}

func (c *Client) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *Client) key(name string) string {
	return c.prefix + name
}

// GetJSON decodes the value stored at name into dest and reports whether it did.
// Missing keys, outages and undecodable values all read as a miss.
func (c *Client) GetJSON(ctx context.Context, name string, dest any) bool {
	if !c.enabled() {
		return false
	}
	data, err := c.rdb.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON stores v as JSON for ttl.
func (c *Client) SetJSON(ctx context.Context, name string, v any, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(name), data, ttl).Err()
}

// Mark records that name holds for ttl.
func (c *Client) Mark(ctx context.Context, name string, ttl time.Duration) {
	if !c.enabled() || ttl <= 0 {
		return
	}
	_ = c.rdb.Set(ctx, c.key(name), "1", ttl).Err()
}

// Marked reports whether name was marked and has not expired.
func (c *Client) Marked(ctx context.Context, name string) bool {
	if !c.enabled() {
		return false
	}
	n, err := c.rdb.Exists(ctx, c.key(name)).Result()
	return err == nil && n > 0
}

// Delete removes name.
func (c *Client) Delete(ctx context.Context, name string) {
	if !c.enabled() {
		return
	}
	_ = c.rdb.Del(ctx, c.key(name)).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Close()
}
