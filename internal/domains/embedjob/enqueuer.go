package embedjob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// Enqueuer is the fire-and-forget trigger the catalog store calls when
// a product's embeddable fields change.
type Enqueuer interface {
	EnqueueProductEmbedding(ctx context.Context, productID uint) error
	Close() error
}

type asynqEnqueuer struct {
	client  *asynq.Client
	queue   string
	policy  RetryPolicy
	enabled bool
	logger  *logger.Logger
}

func NewEnqueuer(
	redisCfg config.RedisConfig,
	workerCfg config.WorkerConfig,
	features config.FeaturesConfig,
	lg *logger.Logger,
) Enqueuer {
	policy := DefaultRetryPolicy()
	if workerCfg.MaxRetries > 0 {
		policy.MaxAttempts = workerCfg.MaxRetries
	}
	return &asynqEnqueuer{
		client:  asynq.NewClient(redisOpt(redisCfg)),
		queue:   queueName(workerCfg),
		policy:  policy,
		enabled: features.AIChatEnabled,
		logger:  lg,
	}
}

// EnqueueProductEmbedding implements Enqueuer. When the AI chat feature
// is off the trigger is a silent no-op so catalog writes never pay for
// embeddings nobody can query.
func (e *asynqEnqueuer) EnqueueProductEmbedding(ctx context.Context, productID uint) error {
	if !e.enabled {
		e.logger.Debugf("embedding enqueue skipped for product %d: ai chat disabled", productID)
		return nil
	}

	payload, err := json.Marshal(Payload{ProductID: productID})
	if err != nil {
		return fmt.Errorf("failed to marshal embedding payload: %w", err)
	}

	task := asynq.NewTask(TypeProductEmbed, payload)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(e.queue),
		asynq.MaxRetry(e.policy.MaxAttempts),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue embedding job for product %d: %w", productID, err)
	}

	e.logger.Debugf("embedding job queued: product=%d task=%s", productID, info.ID)
	return nil
}

func (e *asynqEnqueuer) Close() error {
	return e.client.Close()
}
