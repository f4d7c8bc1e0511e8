// Package embedcache memoizes query embeddings in redis so repeated
// customer questions do not re-pay the provider.
package embedcache

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

const keyPrefix = "carta:qvec:"

type RedisCache struct {
	rc     *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func New(rc *redis.Client, ttl time.Duration, lg *logger.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{rc: rc, ttl: ttl, logger: lg}
}

// Get implements chat.EmbeddingCache. Any redis failure is a miss.
func (c *RedisCache) Get(query string) (dbtypes.Vector, bool) {
	raw, err := c.rc.Get(cacheKey(query)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("embedding cache read failed: %v", err)
		}
		return nil, false
	}

	var vec dbtypes.Vector
	if err := vec.Scan(raw); err != nil {
		c.logger.Warnf("embedding cache entry corrupt, dropping: %v", err)
		c.rc.Del(cacheKey(query))
		return nil, false
	}
	return vec, true
}

// Set implements chat.EmbeddingCache. Failures are logged and ignored;
// the cache is an optimization, never a dependency.
func (c *RedisCache) Set(query string, vec dbtypes.Vector) {
	raw, err := vec.Value()
	if err != nil || raw == nil {
		return
	}
	if err := c.rc.Set(cacheKey(query), raw, c.ttl).Err(); err != nil {
		c.logger.Warnf("embedding cache write failed: %v", err)
	}
}

func cacheKey(query string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("%s%x", keyPrefix, sum)
}
