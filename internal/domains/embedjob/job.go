// Package embedjob keeps product embeddings consistent with their
// catalog text. Jobs arrive at-least-once over an asynq queue; the
// freshness predicate on the product makes redundant delivery a no-op.
package embedjob

import (
	"time"

	"github.com/hibiken/asynq"

	"github.com/cartamenu/carta-rag/internal/config"
)

// TypeProductEmbed is the asynq task type for embedding regeneration.
const TypeProductEmbed = "product:embed"

const defaultQueue = "embeddings"

// Payload is the task body: just the product reference.
type Payload struct {
	ProductID uint `json:"product_id"`
}

// RetryPolicy is the explicit retry contract for embedding jobs:
// a bounded attempt count with exponential backoff. Configuration
// errors never consume an attempt; the processor discards them
// via asynq.SkipRetry.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second}
}

// Delay returns the backoff before the given retry (0-based): base,
// 2*base, 4*base, ...
func (p RetryPolicy) Delay(retried int) time.Duration {
	if retried < 0 {
		retried = 0
	}
	return p.BaseDelay << uint(retried)
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func queueName(cfg config.WorkerConfig) string {
	if cfg.Queue == "" {
		return defaultQueue
	}
	return cfg.Queue
}
