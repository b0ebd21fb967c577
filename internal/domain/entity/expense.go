package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Doctor        string          `gorm:"type:varchar(255);not null"`
	DoctorWelfare decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OTExpenses    decimal.Decimal `gorm:"column:ot_expenses;type:decimal(12,2);not null;default:0"`
	OtherExpenses decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Description   string          `gorm:"type:text;not null;default:''"`
	ExpenseDate   time.Time       `gorm:"not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Deleted       bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}

// CalculateTotal must run before every save.
func (e *Expense) CalculateTotal() {
	e.Total = e.DoctorWelfare.Add(e.OTExpenses).Add(e.OtherExpenses)
}

// ExpenseDoctorSummary is one row of the per-doctor expense report
type ExpenseDoctorSummary struct {
	Doctor       string
	TotalWelfare decimal.Decimal
	TotalOT      decimal.Decimal
	TotalOther   decimal.Decimal
	TotalAmount  decimal.Decimal
	Count        int64
}

type ExpenseGrandTotals struct {
	GrandWelfare decimal.Decimal
	GrandOT      decimal.Decimal
	GrandOther   decimal.Decimal
	GrandTotal   decimal.Decimal
	TotalEntries int64
	TotalDoctors int64
}
