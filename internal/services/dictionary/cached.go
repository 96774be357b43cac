package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "spellfight:word"

// CachedChecker remembers confirmed words in Redis in front of another Checker.
// Only positive answers are cached, since a negative may be a transient
// lookup failure.
type CachedChecker struct {
	next   Checker
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedChecker creates a new CachedChecker
func NewCachedChecker(next Checker, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedChecker {
	return &CachedChecker{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "dictionary_cache")),
	}
}

func cacheKey(word string) string {
	return fmt.Sprintf("%s:%s", cacheKeyPrefix, word)
}

// Exists consults the cache first and falls through to the wrapped checker
func (c *CachedChecker) Exists(ctx context.Context, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}

	hit, err := c.client.Exists(ctx, cacheKey(word)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("dictionary cache read failed", slog.Any("error", err))
	}
	if hit > 0 {
		return true
	}

	if !c.next.Exists(ctx, word) {
		return false
	}

	if err := c.client.Set(ctx, cacheKey(word), "1", c.ttl).Err(); err != nil {
		c.logger.Warn("dictionary cache write failed", slog.Any("error", err))
	}
	return true
}

var _ Checker = (*CachedChecker)(nil)
