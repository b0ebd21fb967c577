package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(db *gorm.DB, product *entity.Product) error
	FindAll(db *gorm.DB, filter entity.ProductFilter) ([]entity.Product, int64, error)
	// FindByID and FindByBarcode only see active variants.
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Product, error)
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Product, error)
	FindByBarcode(db *gorm.DB, barcode string) (*entity.Product, *entity.ProductVariant, error)
	// Update saves the product and its variants. Active variants missing
	// from product.Variants are marked inactive.
	Update(db *gorm.DB, product *entity.Product) error
	Deactivate(db *gorm.DB, id uuid.UUID) error
}

// StockRepository applies signed stock deltas. Both methods return the
// number of rows matched so callers can detect unknown products/variants.
type StockRepository interface {
	AdjustVariantStock(db *gorm.DB, productID, variantID uuid.UUID, delta int) (int64, error)
	AdjustProductStock(db *gorm.DB, productID uuid.UUID, delta int) (int64, error)
	CreateMovements(db *gorm.DB, movements []entity.StockMovement) error
}
