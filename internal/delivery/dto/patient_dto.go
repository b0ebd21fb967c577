package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type PatientRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	ContactNo  string `json:"contact_no" validate:"omitempty,max=50"`
	Age        int    `json:"age" validate:"gte=0,lte=150"`
	Gender     string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address    string `json:"address"`
	IsExternal bool   `json:"is_external"`
}

// CreateVisitRequest books an OPD visit. DoctorFee defaults to the doctor's
// consultation fee when omitted.
type CreateVisitRequest struct {
	DoctorID      uuid.UUID        `json:"doctor_id" validate:"required"`
	VisitDate     *time.Time       `json:"visit_date"`
	Purpose       string           `json:"purpose"`
	Disease       string           `json:"disease"`
	ReferredBy    string           `json:"referred_by"`
	DoctorFee     *decimal.Decimal `json:"doctor_fee"`
	Discount      decimal.Decimal  `json:"discount" validate:"gte=0"`
	AmountPaid    decimal.Decimal  `json:"amount_paid" validate:"gte=0"`
	PaymentMethod string           `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID       `json:"id"`
	MRNo        string          `json:"mr_no"`
	Name        string          `json:"name"`
	ContactNo   string          `json:"contact_no,omitempty"`
	Age         int             `json:"age"`
	Gender      string          `json:"gender,omitempty"`
	Address     string          `json:"address,omitempty"`
	IsExternal  bool            `json:"is_external"`
	TotalVisits int             `json:"total_visits"`
	LastVisit   *time.Time      `json:"last_visit,omitempty"`
	Visits      []VisitResponse `json:"visits,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type VisitResponse struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	DoctorID      *uuid.UUID      `json:"doctor_id,omitempty"`
	DoctorName    string          `json:"doctor_name,omitempty"`
	ProcedureID   *uuid.UUID      `json:"procedure_id,omitempty"`
	VisitDate     time.Time       `json:"visit_date"`
	Token         string          `json:"token"`
	Purpose       string          `json:"purpose,omitempty"`
	Disease       string          `json:"disease,omitempty"`
	ReferredBy    string          `json:"referred_by,omitempty"`
	DoctorFee     decimal.Decimal `json:"doctor_fee"`
	Discount      decimal.Decimal `json:"discount"`
	TotalFee      decimal.Decimal `json:"total_fee"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	AmountStatus  string          `json:"amount_status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}
