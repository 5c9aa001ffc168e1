package access

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheHitBlocked = "1"
	cacheHitClear   = "0"
)

// CachedBlocklist fronts the blocklist repository with a redis lookaside
// cache. Cache failures fall through to the database; the gate never
// rejects or blocks a login because redis is down.
type CachedBlocklist struct {
	repo   BlocklistRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedBlocklist(
	repo BlocklistRepository,
	client *redis.Client,
	prefix string,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedBlocklist {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedBlocklist{
		repo:   repo,
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedBlocklist) IsBlocked(ctx context.Context, ip string) (bool, error) {
	key := c.prefix + ip

	if c.client != nil {
		val, err := c.client.Get(ctx, key).Result()
		switch {
		case err == nil:
			return val == cacheHitBlocked, nil
		case err != redis.Nil:
			c.logger.Warn("blocklist cache read failed", "ip", ip, "error", err)
		}
	}

	entry, err := c.repo.FindEnabledByIP(ctx, ip)
	if err != nil {
		return false, err
	}
	blocked := entry != nil

	if c.client != nil {
		val := cacheHitClear
		if blocked {
			val = cacheHitBlocked
		}
		if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
			c.logger.Warn("blocklist cache write failed", "ip", ip, "error", err)
		}
	}
	return blocked, nil
}

// Invalidate drops the cached verdict for an IP after an admin edits the
// blocklist. Best effort.
func (c *CachedBlocklist) Invalidate(ctx context.Context, ip string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, c.prefix+ip).Err(); err != nil {
		c.logger.Warn("blocklist cache invalidate failed", "ip", ip, "error", err)
	}
}
