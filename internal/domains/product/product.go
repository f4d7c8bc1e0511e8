// Package product holds the catalog product view this core works with.
// The external catalog owns product persistence; this side only reads
// the embeddable fields and writes the embedding pair.
package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMenuNotFound    = errors.New("menu not found")
)

type Product struct {
	ID                   uint
	SectionID            uint
	Name                 string
	Description          string
	Price                float64
	IsVegan              bool
	IsCeliac             bool
	Embedding            dbtypes.Vector
	EmbeddingGeneratedAt *time.Time
	UpdatedAt            time.Time
}

// EmbeddingText composes the string the embedding is generated from:
// name, description, price and dietary tags, in that fixed order,
// skipping blank fields. Returns "" when every field is blank.
func (p Product) EmbeddingText() string {
	var parts []string
	if name := strings.TrimSpace(p.Name); name != "" {
		parts = append(parts, "Nombre: "+name)
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		parts = append(parts, "Descripción: "+desc)
	}
	if p.Price > 0 {
		parts = append(parts, "Precio: $"+formatPrice(p.Price))
	}
	if tags := p.DietaryTags(); len(tags) > 0 {
		parts = append(parts, "Apto para: "+strings.Join(tags, ", "))
	}
	return strings.Join(parts, "\n")
}

// DietaryTags returns the Spanish dietary clauses that apply.
func (p Product) DietaryTags() []string {
	var tags []string
	if p.IsVegan {
		tags = append(tags, "vegano")
	}
	if p.IsCeliac {
		tags = append(tags, "apto para celíacos")
	}
	return tags
}

// NeedsEmbeddingRefresh reports whether the stored embedding is absent
// or older than the product's last update. This predicate is what makes
// at-least-once job delivery safe: a redundant run is a no-op.
func (p Product) NeedsEmbeddingRefresh() bool {
	if len(p.Embedding) == 0 || p.EmbeddingGeneratedAt == nil {
		return true
	}
	return p.UpdatedAt.After(*p.EmbeddingGeneratedAt)
}

func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		return "0"
	}
	return s
}

// Repository is the narrow persistence contract of this core: read
// products for embedding and ranking, write only the embedding pair.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	// MenuExists resolves a scope reference.
	MenuExists(ctx context.Context, menuID uint) (bool, error)
	// ListEmbeddedByMenu returns the menu's products that have a stored
	// embedding, in stable id order.
	ListEmbeddedByMenu(ctx context.Context, menuID uint) ([]Product, error)
	// UpdateEmbedding persists embedding and embedding_generated_at and
	// nothing else, so concurrent catalog edits are never clobbered.
	UpdateEmbedding(ctx context.Context, id uint, vec dbtypes.Vector, generatedAt time.Time) error
}

// String implements fmt.Stringer for log lines.
func (p Product) String() string {
	return fmt.Sprintf("product %d (%s)", p.ID, p.Name)
}
