package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusHold      BillStatus = "hold"
	BillStatusPending   BillStatus = "pending"
	BillStatusPrinted   BillStatus = "printed"
	BillStatusCompleted BillStatus = "completed"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)

var billTransitions = map[BillStatus][]BillStatus{
	BillStatusHold:      {BillStatusHold, BillStatusPending, BillStatusPrinted, BillStatusCompleted, BillStatusPaid, BillStatusCancelled},
	BillStatusPending:   {BillStatusHold, BillStatusPending, BillStatusPrinted, BillStatusCompleted, BillStatusPaid, BillStatusCancelled},
	BillStatusPrinted:   {BillStatusHold, BillStatusPending, BillStatusPrinted, BillStatusCompleted, BillStatusPaid, BillStatusCancelled},
	BillStatusCompleted: {BillStatusCompleted, BillStatusPaid, BillStatusHold, BillStatusCancelled},
	BillStatusPaid:      {BillStatusPaid, BillStatusCompleted, BillStatusHold, BillStatusCancelled},
	BillStatusCancelled: {BillStatusCancelled},
}

func (s BillStatus) IsValid() bool {
	_, ok := billTransitions[s]
	return ok
}

// IsStockCommitted reports whether line items of a bill in this status have
// been taken out of stock.
func (s BillStatus) IsStockCommitted() bool {
	return s == BillStatusCompleted || s == BillStatusPaid
}

// CanTransitionTo reports whether a bill may move from s to next.
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	for _, allowed := range billTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Bill struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BillNo          string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustomerName    string          `gorm:"type:varchar(255)"`
	CustomerContact string          `gorm:"type:varchar(50)"`
	Status          BillStatus      `gorm:"type:varchar(20);not null;default:hold"`
	PaymentMethod   string          `gorm:"type:varchar(20)"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`

	Items   []BillItem `gorm:"foreignKey:BillID"`
	Creator *User      `gorm:"foreignKey:CreatedBy"`
}

func (Bill) TableName() string {
	return "bills"
}

// RecalculateTotals sets each line total to (price - discount) * quantity
// and the bill total to their sum.
func (b *Bill) RecalculateTotals() {
	total := decimal.Zero
	for i := range b.Items {
		item := &b.Items[i]
		item.Total = item.Price.Sub(item.Discount).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Total)
	}
	b.TotalAmount = total
}

type BillItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BillID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Size      string          `gorm:"type:varchar(20)"`
	Color     string          `gorm:"type:varchar(50)"`
	Barcode   string          `gorm:"type:varchar(100)"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (BillItem) TableName() string {
	return "bill_items"
}
