package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MRNo        string     `gorm:"column:mr_no;type:varchar(32);uniqueIndex;not null"`
	Name        string     `gorm:"type:varchar(255);not null"`
	ContactNo   string     `gorm:"type:varchar(50)"`
	Age         int        `gorm:"not null;default:0"`
	Gender      Gender     `gorm:"type:varchar(10)"`
	Address     string     `gorm:"type:text"`
	IsExternal  bool       `gorm:"not null;default:false"`
	TotalVisits int        `gorm:"not null;default:0"`
	LastVisit   *time.Time `gorm:"type:timestamptz"`
	Deleted     bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`

	Visits []PatientVisit `gorm:"foreignKey:PatientID"`
}

func (Patient) TableName() string {
	return "patients"
}

type VisitKind string

const (
	VisitKindOPD       VisitKind = "opd"
	VisitKindProcedure VisitKind = "procedure"
)

type AmountStatus string

const (
	AmountStatusPending AmountStatus = "pending"
	AmountStatusPartial AmountStatus = "partial"
	AmountStatusPaid    AmountStatus = "paid"
)

// PatientVisit is appended whenever an OPD visit or a procedure is booked.
// Visits are never removed.
type PatientVisit struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DoctorID      *uuid.UUID      `gorm:"type:uuid"`
	ProcedureID   *uuid.UUID      `gorm:"type:uuid"`
	Kind          VisitKind       `gorm:"type:varchar(20);not null;default:opd"`
	VisitDate     time.Time       `gorm:"not null"`
	TokenDate     time.Time       `gorm:"type:date;not null"`
	Token         string          `gorm:"type:varchar(20)"`
	Purpose       string          `gorm:"type:text"`
	Disease       string          `gorm:"type:text"`
	ReferredBy    string          `gorm:"type:text"`
	DoctorFee     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalFee      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountStatus  AmountStatus    `gorm:"type:varchar(20);not null;default:pending"`
	PaymentMethod string          `gorm:"type:varchar(20)"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID"`
}

func (PatientVisit) TableName() string {
	return "patient_visits"
}

// ApplyFees fills TotalFee, AmountDue and AmountStatus from the fee,
// discount and paid amounts already set on the visit.
func (v *PatientVisit) ApplyFees() {
	v.TotalFee = v.DoctorFee.Sub(v.Discount)
	if v.TotalFee.IsNegative() {
		v.TotalFee = decimal.Zero
	}

	v.AmountDue = v.TotalFee.Sub(v.AmountPaid)
	if v.AmountDue.IsNegative() {
		v.AmountDue = decimal.Zero
	}

	switch {
	case v.AmountDue.IsZero():
		v.AmountStatus = AmountStatusPaid
	case v.AmountPaid.IsPositive():
		v.AmountStatus = AmountStatusPartial
	default:
		v.AmountStatus = AmountStatusPending
	}
}
