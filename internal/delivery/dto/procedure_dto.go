package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ExternalPatientRequest struct {
	Name      string `json:"name" validate:"required,min=2"`
	ContactNo string `json:"contact_no" validate:"required,max=50"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address   string `json:"address"`
}

// CreateProcedureRequest books a procedure either for a registered patient
// (PatientMRNo) or for an external one (ExternalPatientDetails).
type CreateProcedureRequest struct {
	PatientMRNo            string                  `json:"patient_mr_no" validate:"required_without=ExternalPatientDetails"`
	ExternalPatientDetails *ExternalPatientRequest `json:"external_patient_details"`
	ProcedureName          string                  `json:"procedure_name" validate:"required"`
	DepartmentID           uuid.UUID               `json:"department_id" validate:"required"`
	Category               string                  `json:"category" validate:"required"`
	Description            string                  `json:"description"`
	ScheduledDate          *time.Time              `json:"scheduled_date"`
	DurationMinutes        *int                    `json:"duration_minutes" validate:"omitempty,gt=0"`
	Price                  decimal.Decimal         `json:"price" validate:"gte=0"`
	DoctorID               *uuid.UUID              `json:"doctor_id"`
	Notes                  string                  `json:"notes"`
	AmountPaid             decimal.Decimal         `json:"amount_paid" validate:"gte=0"`
	PaymentMethod          string                  `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
}

// UpdateProcedureRequest only touches the fields that are set
type UpdateProcedureRequest struct {
	ProcedureName   *string          `json:"procedure_name"`
	Category        *string          `json:"category"`
	Description     *string          `json:"description"`
	ScheduledDate   *time.Time       `json:"scheduled_date"`
	DurationMinutes *int             `json:"duration_minutes" validate:"omitempty,gt=0"`
	Price           *decimal.Decimal `json:"price"`
	DoctorID        *uuid.UUID       `json:"doctor_id"`
	Status          *string          `json:"status"`
	Notes           *string          `json:"notes"`
	AmountPaid      *decimal.Decimal `json:"amount_paid"`
	PaymentMethod   *string          `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
}

// ProcedureListQuery carries the list filters read from the query string
type ProcedureListQuery struct {
	PatientMRNo  string
	DepartmentID *uuid.UUID
	Status       string
	Category     string
	Page         int
	Limit        int
}

// Response DTOs

type ProcedureResponse struct {
	ID                     uuid.UUID               `json:"id"`
	PatientID              uuid.UUID               `json:"patient_id"`
	PatientMRNo            string                  `json:"patient_mr_no"`
	PatientName            string                  `json:"patient_name,omitempty"`
	IsExternal             bool                    `json:"is_external"`
	ExternalPatientDetails *ExternalPatientRequest `json:"external_patient_details,omitempty"`
	Token                  string                  `json:"token"`
	TokenNumber            int                     `json:"token_number"`
	DepartmentPrefix       string                  `json:"department_prefix"`
	ProcedureName          string                  `json:"procedure_name"`
	DepartmentID           uuid.UUID               `json:"department_id"`
	DepartmentName         string                  `json:"department_name,omitempty"`
	Category               string                  `json:"category"`
	Description            string                  `json:"description,omitempty"`
	ScheduledDate          time.Time               `json:"scheduled_date"`
	DurationMinutes        *int                    `json:"duration_minutes,omitempty"`
	Price                  decimal.Decimal         `json:"price"`
	DoctorID               *uuid.UUID              `json:"doctor_id,omitempty"`
	DoctorName             string                  `json:"doctor_name,omitempty"`
	DoctorDepartment       string                  `json:"doctor_department,omitempty"`
	Status                 string                  `json:"status"`
	Notes                  string                  `json:"notes,omitempty"`
	BillingStatus          string                  `json:"billing_status"`
	AmountPaid             decimal.Decimal         `json:"amount_paid"`
	PaymentMethod          string                  `json:"payment_method,omitempty"`
	PaymentDate            *time.Time              `json:"payment_date,omitempty"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
}
