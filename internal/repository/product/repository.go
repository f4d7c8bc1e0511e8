package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/internal/domains/product"
)

type GormProductRepo struct {
	db *gorm.DB
}

func NewGormProductRepo(db *gorm.DB) *GormProductRepo {
	return &GormProductRepo{db: db}
}

// GetByID implements product.Repository
func (g *GormProductRepo) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	var entity ProductEntity
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// MenuExists implements product.Repository
func (g *GormProductRepo) MenuExists(ctx context.Context, menuID uint) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&MenuEntity{}).Where("id = ?", menuID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to resolve menu: %w", err)
	}
	return count > 0, nil
}

// ListEmbeddedByMenu implements product.Repository
func (g *GormProductRepo) ListEmbeddedByMenu(ctx context.Context, menuID uint) ([]product.Product, error) {
	var entities []ProductEntity
	err := g.db.WithContext(ctx).
		Joins("JOIN sections ON sections.id = products.section_id").
		Where("sections.menu_id = ?", menuID).
		Where("products.embedding IS NOT NULL").
		Order("products.id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded products: %w", err)
	}

	products := make([]product.Product, len(entities))
	for i, entity := range entities {
		products[i] = *entity.ToDomain()
	}
	return products, nil
}

// UpdateEmbedding implements product.Repository. UpdateColumns skips
// hooks and does not touch updated_at: the embedding write must never
// look like a catalog edit, or the freshness predicate would loop.
func (g *GormProductRepo) UpdateEmbedding(ctx context.Context, id uint, vec dbtypes.Vector, generatedAt time.Time) error {
	result := g.db.WithContext(ctx).
		Model(&ProductEntity{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"embedding":              vec,
			"embedding_generated_at": generatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update embedding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}
	return nil
}
