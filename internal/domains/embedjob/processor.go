package embedjob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cartamenu/carta-rag/internal/domains/product"
	"github.com/cartamenu/carta-rag/pkg/aiclient"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// Processor regenerates one product's embedding. It is safe to run
// concurrently for distinct products and redundantly for the same
// product: the freshness check converges every schedule to the same
// end state.
type Processor struct {
	products product.Repository
	ai       aiclient.Client
	logger   *logger.Logger
}

func NewProcessor(products product.Repository, ai aiclient.Client, lg *logger.Logger) *Processor {
	return &Processor{
		products: products,
		ai:       ai,
		logger:   lg,
	}
}

// ProcessTask implements asynq.Handler. Returned errors trigger a
// retry unless wrapped with asynq.SkipRetry; configuration errors are
// discarded that way because retrying a deployment problem cannot help.
func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload Payload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid embedding payload: %v: %w", err, asynq.SkipRetry)
	}

	prod, err := p.products.GetByID(ctx, payload.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			// Deleted between enqueue and execution. Nothing to do.
			p.logger.Warnf("product %d not found for embedding generation", payload.ProductID)
			return nil
		}
		return fmt.Errorf("failed to load product %d: %w", payload.ProductID, err)
	}

	if !prod.NeedsEmbeddingRefresh() {
		p.logger.Debugf("embedding already fresh for %s", prod)
		return nil
	}

	text := prod.EmbeddingText()
	if text == "" {
		p.logger.Infof("skipping embedding for %s: no embeddable text", prod)
		return nil
	}

	vec, err := p.ai.Embed(ctx, text)
	if err != nil {
		if aiclient.IsConfigurationError(err) {
			p.logger.Errorf("discarding embedding job for %s: %v", prod, err)
			return fmt.Errorf("ai client misconfigured: %v: %w", err, asynq.SkipRetry)
		}
		// APIError (including timeouts): retryable with backoff.
		return fmt.Errorf("embedding generation failed for product %d: %w", payload.ProductID, err)
	}

	if err := p.products.UpdateEmbedding(ctx, prod.ID, vec, time.Now()); err != nil {
		return fmt.Errorf("failed to persist embedding for product %d: %w", payload.ProductID, err)
	}

	p.logger.Infof("generated embedding for %s", prod)
	return nil
}
