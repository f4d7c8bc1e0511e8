package embedjob

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/internal/domains/product"
	"github.com/cartamenu/carta-rag/pkg/aiclient"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

type fakeRepo struct {
	prod        *product.Product
	savedVec    dbtypes.Vector
	savedAt     time.Time
	updateCalls int
}

func (f *fakeRepo) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	if f.prod == nil || f.prod.ID != id {
		return nil, product.ErrProductNotFound
	}
	cp := *f.prod
	return &cp, nil
}

func (f *fakeRepo) MenuExists(ctx context.Context, menuID uint) (bool, error) {
	return false, nil
}

func (f *fakeRepo) ListEmbeddedByMenu(ctx context.Context, menuID uint) ([]product.Product, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateEmbedding(ctx context.Context, id uint, vec dbtypes.Vector, at time.Time) error {
	f.updateCalls++
	f.savedVec = vec
	f.savedAt = at
	return nil
}

type fakeAI struct {
	vec        dbtypes.Vector
	err        error
	embedCalls int
	lastText   string
}

func (f *fakeAI) Provider() string { return "fake" }
func (f *fakeAI) Dim() int         { return len(f.vec) }

func (f *fakeAI) Embed(ctx context.Context, text string) (dbtypes.Vector, error) {
	f.embedCalls++
	f.lastText = text
	return f.vec, f.err
}

func (f *fakeAI) Complete(ctx context.Context, msgs []aiclient.Message, opts aiclient.CompletionOptions) (string, error) {
	return "", nil
}

func embedTask(t *testing.T, productID uint) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(Payload{ProductID: productID})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return asynq.NewTask(TypeProductEmbed, payload)
}

func TestProcessTaskGeneratesEmbedding(t *testing.T) {
	repo := &fakeRepo{prod: &product.Product{
		ID:          42,
		Name:        "Pizza Margarita",
		Description: "Con tomate y queso",
		Price:       12.5,
		UpdatedAt:   time.Now(),
	}}
	ai := &fakeAI{vec: dbtypes.Vector{0.1, 0.2}}
	p := NewProcessor(repo, ai, logger.NewNop())

	if err := p.ProcessTask(context.Background(), embedTask(t, 42)); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if repo.updateCalls != 1 {
		t.Fatalf("expected 1 persist call, got %d", repo.updateCalls)
	}
	if len(repo.savedVec) != 2 {
		t.Errorf("unexpected persisted vector %v", repo.savedVec)
	}
	if ai.lastText != repo.prod.EmbeddingText() {
		t.Errorf("embed called with %q, want composed text %q", ai.lastText, repo.prod.EmbeddingText())
	}
}

func TestProcessTaskIdempotentWhenFresh(t *testing.T) {
	generated := time.Now()
	repo := &fakeRepo{prod: &product.Product{
		ID:                   42,
		Name:                 "Pizza",
		Embedding:            dbtypes.Vector{1},
		EmbeddingGeneratedAt: &generated,
		UpdatedAt:            generated.Add(-time.Minute),
	}}
	ai := &fakeAI{vec: dbtypes.Vector{1}}
	p := NewProcessor(repo, ai, logger.NewNop())

	if err := p.ProcessTask(context.Background(), embedTask(t, 42)); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}
	if ai.embedCalls != 0 {
		t.Errorf("fresh embedding must not call the provider, got %d calls", ai.embedCalls)
	}
	if repo.updateCalls != 0 {
		t.Errorf("fresh embedding must not be rewritten, got %d writes", repo.updateCalls)
	}
}

func TestProcessTaskMissingProductIsDropped(t *testing.T) {
	p := NewProcessor(&fakeRepo{}, &fakeAI{}, logger.NewNop())
	if err := p.ProcessTask(context.Background(), embedTask(t, 99)); err != nil {
		t.Errorf("missing product must not error (at-least-once delivery), got %v", err)
	}
}

func TestProcessTaskEmptyTextSkips(t *testing.T) {
	repo := &fakeRepo{prod: &product.Product{ID: 7, Name: "  ", UpdatedAt: time.Now()}}
	ai := &fakeAI{}
	p := NewProcessor(repo, ai, logger.NewNop())

	if err := p.ProcessTask(context.Background(), embedTask(t, 7)); err != nil {
		t.Fatalf("empty text must skip, not fail: %v", err)
	}
	if ai.embedCalls != 0 {
		t.Errorf("empty text must not call the provider, got %d calls", ai.embedCalls)
	}
}

func TestProcessTaskAPIErrorIsRetryable(t *testing.T) {
	repo := &fakeRepo{prod: &product.Product{ID: 7, Name: "Pizza", UpdatedAt: time.Now()}}
	ai := &fakeAI{err: &aiclient.APIError{Provider: "fake", Status: 500}}
	p := NewProcessor(repo, ai, logger.NewNop())

	err := p.ProcessTask(context.Background(), embedTask(t, 7))
	if err == nil {
		t.Fatal("expected error for upstream failure")
	}
	if errors.Is(err, asynq.SkipRetry) {
		t.Error("api errors must stay retryable")
	}
	if repo.updateCalls != 0 {
		t.Error("failed embedding must not be persisted")
	}
}

func TestProcessTaskConfigurationErrorIsDiscarded(t *testing.T) {
	repo := &fakeRepo{prod: &product.Product{ID: 7, Name: "Pizza", UpdatedAt: time.Now()}}
	ai := &fakeAI{err: &aiclient.ConfigurationError{Reason: "key missing"}}
	p := NewProcessor(repo, ai, logger.NewNop())

	err := p.ProcessTask(context.Background(), embedTask(t, 7))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("configuration errors must skip retries, got %v", err)
	}
}

func TestProcessTaskBadPayloadIsDiscarded(t *testing.T) {
	p := NewProcessor(&fakeRepo{}, &fakeAI{}, logger.NewNop())
	err := p.ProcessTask(context.Background(), asynq.NewTask(TypeProductEmbed, []byte("not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Errorf("malformed payload must skip retries, got %v", err)
	}
}

func TestRetryPolicyDelayGrowsExponentially(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}
	if policy.Delay(0) != time.Second {
		t.Errorf("first retry delay: %s", policy.Delay(0))
	}
	if policy.Delay(1) != 2*time.Second {
		t.Errorf("second retry delay: %s", policy.Delay(1))
	}
	if policy.Delay(2) != 4*time.Second {
		t.Errorf("third retry delay: %s", policy.Delay(2))
	}
}
