package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ProcedureStatus string

const (
	ProcedureStatusScheduled  ProcedureStatus = "scheduled"
	ProcedureStatusInProgress ProcedureStatus = "in-progress"
	ProcedureStatusCompleted  ProcedureStatus = "completed"
	ProcedureStatusCancelled  ProcedureStatus = "cancelled"
)

func (s ProcedureStatus) IsValid() bool {
	switch s {
	case ProcedureStatusScheduled, ProcedureStatusInProgress, ProcedureStatusCompleted, ProcedureStatusCancelled:
		return true
	}
	return false
}

type BillingStatus string

const (
	BillingStatusPending BillingStatus = "pending"
	BillingStatusPartial BillingStatus = "partial"
	BillingStatusPaid    BillingStatus = "paid"
)

// BillingStatusFor derives the billing status of a procedure from what has
// been paid against its price.
func BillingStatusFor(amountPaid, price decimal.Decimal) BillingStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(price):
		return BillingStatusPaid
	case amountPaid.IsPositive():
		return BillingStatusPartial
	default:
		return BillingStatusPending
	}
}

type ExternalPatientDetails struct {
	Name      string `json:"name"`
	ContactNo string `json:"contactNo"`
	Age       int    `json:"age,omitempty"`
	Gender    Gender `json:"gender,omitempty"`
	Address   string `json:"address,omitempty"`
}

type Procedure struct {
	ID                     uuid.UUID                                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID              uuid.UUID                                  `gorm:"type:uuid;not null"`
	PatientMRNo            string                                     `gorm:"column:patient_mr_no;type:varchar(32);not null;index"`
	IsExternal             bool                                       `gorm:"not null;default:false"`
	ExternalPatientDetails datatypes.JSONType[ExternalPatientDetails] `gorm:"type:jsonb"`
	Token                  string                                     `gorm:"type:varchar(20);not null"`
	TokenNumber            int                                        `gorm:"not null"`
	DepartmentPrefix       string                                     `gorm:"type:varchar(5);not null"`
	TokenDate              time.Time                                  `gorm:"type:date;not null"`
	ProcedureName          string                                     `gorm:"type:varchar(255);not null"`
	DepartmentID           uuid.UUID                                  `gorm:"type:uuid;not null;index"`
	Category               string                                     `gorm:"type:varchar(100);not null"`
	Description            string                                     `gorm:"type:text"`
	ScheduledDate          time.Time                                  `gorm:"not null"`
	DurationMinutes        *int                                       `gorm:"type:integer"`
	Price                  decimal.Decimal                            `gorm:"type:decimal(12,2);not null"`
	DoctorID               *uuid.UUID                                 `gorm:"type:uuid"`
	DoctorName             string                                     `gorm:"type:varchar(255)"`
	DoctorDepartment       string                                     `gorm:"type:varchar(150)"`
	Status                 ProcedureStatus                            `gorm:"type:varchar(20);not null;default:scheduled"`
	Notes                  string                                     `gorm:"type:text"`
	BillingStatus          BillingStatus                              `gorm:"type:varchar(20);not null;default:pending"`
	AmountPaid             decimal.Decimal                            `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod          string                                     `gorm:"type:varchar(20)"`
	PaymentDate            *time.Time                                 `gorm:"type:timestamptz"`
	Deleted                bool                                       `gorm:"not null;default:false"`
	CreatedAt              time.Time                                  `gorm:"autoCreateTime"`
	UpdatedAt              time.Time                                  `gorm:"autoUpdateTime"`

	Patient    Patient    `gorm:"foreignKey:PatientID"`
	Department Department `gorm:"foreignKey:DepartmentID"`
}

func (Procedure) TableName() string {
	return "procedures"
}
