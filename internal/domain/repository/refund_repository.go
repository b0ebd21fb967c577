package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(db *gorm.DB, refund *entity.Refund) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Refund, error)
	FindAll(db *gorm.DB, filter entity.RefundFilter) ([]entity.Refund, int64, error)
	FindByMRNo(db *gorm.DB, mrNo string) ([]entity.Refund, error)
	Update(db *gorm.DB, refund *entity.Refund) error
	// SumForVisit totals every non-rejected refund against a visit.
	SumForVisit(db *gorm.DB, visitID uuid.UUID) (decimal.Decimal, error)
	CountByStatus(db *gorm.DB) ([]entity.RefundStatusCount, error)
	SumCreatedIn(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error)
	// SumSettledByDoctor totals approved and processed refunds per doctor.
	SumSettledByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRefund, error)
}
