package entity

import (
	"time"

	"github.com/google/uuid"
)

type StockMovementReason string

const (
	StockMovementSale     StockMovementReason = "sale"
	StockMovementReversal StockMovementReason = "reversal"
)

// StockMovement records a signed change applied to a product or variant
// stock level. Negative quantities take stock out.
type StockMovement struct {
	ID        int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	VariantID *uuid.UUID          `gorm:"type:uuid" json:"variant_id,omitempty"`
	BillID    *uuid.UUID          `gorm:"type:uuid;index" json:"bill_id,omitempty"`
	Quantity  int                 `gorm:"not null" json:"quantity"`
	Reason    StockMovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
