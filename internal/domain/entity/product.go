package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a retail counter item. Stock is kept on the variants when a
// product has any; the top-level Stock covers products sold without one.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	Brand       string          `gorm:"type:varchar(100)"`
	Description string          `gorm:"type:text"`
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariant rows are never deleted while a product lives; a variant
// dropped from the product is marked inactive so bills that sold it can
// still reconcile stock.
type ProductVariant struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Size         string          `gorm:"type:varchar(20)"`
	Color        string          `gorm:"type:varchar(50)"`
	Barcode      string          `gorm:"type:varchar(100);not null"`
	Stock        int             `gorm:"default:0"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive     bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
