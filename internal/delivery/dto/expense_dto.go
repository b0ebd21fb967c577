package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ExpenseRequest struct {
	Doctor        string          `json:"doctor" validate:"required"`
	DoctorWelfare decimal.Decimal `json:"doctor_welfare" validate:"gte=0"`
	OTExpenses    decimal.Decimal `json:"ot_expenses" validate:"gte=0"`
	OtherExpenses decimal.Decimal `json:"other_expenses" validate:"gte=0"`
	Description   string          `json:"description"`
	ExpenseDate   *time.Time      `json:"expense_date"`
}

type ExpenseListQuery struct {
	Doctor string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Response DTOs

type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Doctor        string          `json:"doctor"`
	DoctorWelfare decimal.Decimal `json:"doctor_welfare"`
	OTExpenses    decimal.Decimal `json:"ot_expenses"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	Description   string          `json:"description,omitempty"`
	ExpenseDate   time.Time       `json:"expense_date"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ExpenseDoctorSummaryResponse struct {
	Doctor       string          `json:"doctor"`
	TotalWelfare decimal.Decimal `json:"total_welfare"`
	TotalOT      decimal.Decimal `json:"total_ot"`
	TotalOther   decimal.Decimal `json:"total_other"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Count        int64           `json:"count"`
}

type ExpenseTotalsResponse struct {
	GrandWelfare decimal.Decimal `json:"grand_welfare"`
	GrandOT      decimal.Decimal `json:"grand_ot"`
	GrandOther   decimal.Decimal `json:"grand_other"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	TotalEntries int64           `json:"total_entries"`
	TotalDoctors int64           `json:"total_doctors"`
}

type ExpenseCompleteSummaryResponse struct {
	Doctors []ExpenseDoctorSummaryResponse `json:"doctors"`
	Totals  ExpenseTotalsResponse          `json:"totals"`
}
