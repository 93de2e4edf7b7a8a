package persistence

import (
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/engagement"
)

// AutoMigrate creates or updates the schema for all aggregates
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&engagement.Review{},
	)
}
