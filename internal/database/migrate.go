package database

import (
	"gorm.io/gorm"

	productrepo "github.com/cartamenu/carta-rag/internal/repository/product"
)

// MigrateDB ensures the embedding columns exist. The full catalog
// schema is owned elsewhere; automigrating these entities is additive.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&productrepo.MenuEntity{},
		&productrepo.SectionEntity{},
		&productrepo.ProductEntity{},
	)
}
