package chat

import (
	"errors"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
)

var (
	// ErrInvalidRequest marks caller errors: blank query, missing scope.
	ErrInvalidRequest = errors.New("invalid chat request")
	// ErrMenuNotFound marks an unresolvable scope reference.
	ErrMenuNotFound = errors.New("menu not found")
	// ErrProviderUnavailable covers both provider misconfiguration and
	// upstream API failures; the caller may resubmit.
	ErrProviderUnavailable = errors.New("ai provider unavailable")
)

const (
	DefaultTopK   = 5
	maxDescLength = 100
)

type Request struct {
	UserQuery string `json:"user_query"`
	MenuID    uint   `json:"menu_id"`
	Locale    string `json:"locale"`
	TopK      int    `json:"top_k"`
	SessionID string `json:"session_id"`
}

// Reference is one retrieved product cited by the answer.
type Reference struct {
	ProductID       uint    `json:"product_id"`
	Name            string  `json:"name"`
	SimilarityScore float64 `json:"similarity_score"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price,omitempty"`
	IsVegan         bool    `json:"is_vegan"`
	IsCeliac        bool    `json:"is_celiac"`
}

type Response struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
	SessionID  string      `json:"session_id"`
}

// EmbeddingCache memoizes query embeddings. Implementations must treat
// errors as misses; a cold or broken cache only costs a provider call.
type EmbeddingCache interface {
	Get(query string) (dbtypes.Vector, bool)
	Set(query string, vec dbtypes.Vector)
}
