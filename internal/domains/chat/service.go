// Package chat runs the retrieval-augmented answer flow: embed the
// customer's question, rank the menu's embedded products, build a
// grounded prompt and complete it through the configured AI provider.
package chat

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cartamenu/carta-rag/internal/constants/prompts"
	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/internal/domains/product"
	"github.com/cartamenu/carta-rag/internal/retrieval"
	"github.com/cartamenu/carta-rag/pkg/aiclient"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

type Service interface {
	Ask(ctx context.Context, req Request) (*Response, error)
}

type service struct {
	products    product.Repository
	ai          aiclient.Client
	index       retrieval.Index
	cache       EmbeddingCache
	logger      *logger.Logger
	chatLogging bool
}

// New builds the chat service. cache may be nil.
func New(
	products product.Repository,
	ai aiclient.Client,
	index retrieval.Index,
	cache EmbeddingCache,
	lg *logger.Logger,
	chatLogging bool,
) Service {
	return &service{
		products:    products,
		ai:          ai,
		index:       index,
		cache:       cache,
		logger:      lg,
		chatLogging: chatLogging,
	}
}

// Ask implements Service. The flow is one-shot: no partial results are
// returned on failure, and every provider failure surfaces as
// ErrProviderUnavailable with the upstream detail logged server-side only.
func (s *service) Ask(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	query := strings.TrimSpace(req.UserQuery)
	if query == "" {
		return nil, fmt.Errorf("%w: user_query is required", ErrInvalidRequest)
	}
	if req.MenuID == 0 {
		return nil, fmt.Errorf("%w: menu_id is required", ErrInvalidRequest)
	}

	exists, err := s.products.MenuExists(ctx, req.MenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve menu %d: %w", req.MenuID, err)
	}
	if !exists {
		return nil, ErrMenuNotFound
	}

	locale := prompts.ParseLocale(req.Locale)
	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.logRequest("chat query received: session=%s menu=%d query=%q", sessionID, req.MenuID, query)

	queryVec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.products.ListEmbeddedByMenu(ctx, req.MenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu %d candidates: %w", req.MenuID, err)
	}

	ranked := s.index.Search(queryVec, toCandidates(candidates), topK)
	if len(ranked) == 0 {
		s.logRequest("chat query found no candidates: session=%s menu=%d", sessionID, req.MenuID)
		return &Response{
			Answer:     prompts.EmptyAnswer(locale),
			References: []Reference{},
			SessionID:  sessionID,
		}, nil
	}

	matched := matchProducts(ranked, candidates)
	msgs := prompts.BuildMessages(query, matched, locale)

	answer, err := s.ai.Complete(ctx, msgs, aiclient.DefaultCompletionOptions())
	if err != nil {
		return nil, s.mapProviderErr("complete", err)
	}

	refs := make([]Reference, len(matched))
	for i, p := range matched {
		refs[i] = Reference{
			ProductID:       p.ID,
			Name:            p.Name,
			SimilarityScore: roundScore(ranked[i].Distance),
			Description:     truncate(p.Description, maxDescLength),
			Price:           p.Price,
			IsVegan:         p.IsVegan,
			IsCeliac:        p.IsCeliac,
		}
	}

	s.logRequest("chat query completed: session=%s references=%d duration=%s",
		sessionID, len(refs), time.Since(start).Round(time.Millisecond))

	return &Response{
		Answer:     answer,
		References: refs,
		SessionID:  sessionID,
	}, nil
}

func (s *service) embedQuery(ctx context.Context, query string) (dbtypes.Vector, error) {
	if s.cache != nil {
		if vec, ok := s.cache.Get(query); ok {
			return vec, nil
		}
	}

	vec, err := s.ai.Embed(ctx, query)
	if err != nil {
		return nil, s.mapProviderErr("embed", err)
	}

	if s.cache != nil {
		s.cache.Set(query, vec)
	}
	return vec, nil
}

// mapProviderErr collapses the provider taxonomy into the single
// caller-facing failure. Raw upstream detail stays in the log.
func (s *service) mapProviderErr(op string, err error) error {
	switch {
	case aiclient.IsConfigurationError(err):
		s.logger.Errorf("ai %s configuration error: %v", op, err)
	case aiclient.IsAPIError(err):
		s.logger.Errorf("ai %s api error: %v", op, err)
	default:
		s.logger.Errorf("ai %s error: %v", op, err)
	}
	return ErrProviderUnavailable
}

func (s *service) logRequest(format string, args ...interface{}) {
	if s.chatLogging {
		s.logger.Infof(format, args...)
	}
}

func toCandidates(products []product.Product) []retrieval.Candidate {
	out := make([]retrieval.Candidate, len(products))
	for i, p := range products {
		out[i] = retrieval.Candidate{ID: p.ID, Vector: p.Embedding}
	}
	return out
}

func matchProducts(matches []retrieval.Match, products []product.Product) []product.Product {
	byID := make(map[uint]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]product.Product, 0, len(matches))
	for _, m := range matches {
		if p, ok := byID[m.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func roundScore(d float64) float64 {
	return math.Round(d*10000) / 10000
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
