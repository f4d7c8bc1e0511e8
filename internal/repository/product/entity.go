package product

import (
	"time"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/internal/domains/product"
)

// ProductEntity is the database row. Only the embedding pair is written
// by this service; every other column belongs to the catalog.
type ProductEntity struct {
	ID                   uint           `gorm:"primaryKey;autoIncrement"`
	SectionID            uint           `gorm:"column:section_id;not null;index"`
	Name                 string         `gorm:"column:name;type:varchar(255);not null"`
	Description          string         `gorm:"column:description;type:text"`
	Price                float64        `gorm:"column:price;type:decimal(10,2)"`
	IsVegan              bool           `gorm:"column:is_vegan;default:false"`
	IsCeliac             bool           `gorm:"column:is_celiac;default:false"`
	Embedding            dbtypes.Vector `gorm:"column:embedding;type:text"`
	EmbeddingGeneratedAt *time.Time     `gorm:"column:embedding_generated_at"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
}

func (ProductEntity) TableName() string {
	return "products"
}

func (e *ProductEntity) ToDomain() *product.Product {
	return &product.Product{
		ID:                   e.ID,
		SectionID:            e.SectionID,
		Name:                 e.Name,
		Description:          e.Description,
		Price:                e.Price,
		IsVegan:              e.IsVegan,
		IsCeliac:             e.IsCeliac,
		Embedding:            e.Embedding,
		EmbeddingGeneratedAt: e.EmbeddingGeneratedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

// SectionEntity and MenuEntity mirror just enough of the catalog schema
// to resolve a menu scope to its products.
type SectionEntity struct {
	ID     uint `gorm:"primaryKey;autoIncrement"`
	MenuID uint `gorm:"column:menu_id;not null;index"`
}

func (SectionEntity) TableName() string {
	return "sections"
}

type MenuEntity struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(255)"`
}

func (MenuEntity) TableName() string {
	return "menus"
}
