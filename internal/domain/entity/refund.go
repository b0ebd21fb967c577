package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusApproved  RefundStatus = "approved"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusRejected  RefundStatus = "rejected"
)

var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundStatusPending:  {RefundStatusApproved, RefundStatusRejected},
	RefundStatusApproved: {RefundStatusProcessed, RefundStatusRejected},
}

func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundStatusPending, RefundStatusApproved, RefundStatusProcessed, RefundStatusRejected:
		return true
	}
	return false
}

func (s RefundStatus) CanTransitionTo(next RefundStatus) bool {
	for _, allowed := range refundTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAgainstVisit reports whether the refund reduces what is still
// refundable on its visit.
func (s RefundStatus) CountsAgainstVisit() bool {
	return s != RefundStatusRejected
}

// Refund returns money paid on a patient visit
type Refund struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientID    uuid.UUID       `gorm:"type:uuid;not null"`
	PatientMRNo  string          `gorm:"column:patient_mr_no;type:varchar(32);not null"`
	VisitID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason       string          `gorm:"type:text;not null"`
	RefundMethod string          `gorm:"type:varchar(20);not null;default:cash"`
	Status       RefundStatus    `gorm:"type:varchar(20);not null;default:pending"`
	Remarks      string          `gorm:"type:text"`
	CreatedBy    *uuid.UUID      `gorm:"type:uuid"`
	ProcessedBy  *uuid.UUID      `gorm:"type:uuid"`
	ProcessedAt  *time.Time      `gorm:"type:timestamptz"`
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`

	Patient Patient      `gorm:"foreignKey:PatientID"`
	Visit   PatientVisit `gorm:"foreignKey:VisitID"`
}

func (Refund) TableName() string {
	return "refunds"
}
