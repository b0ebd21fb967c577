package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillRepository interface {
	Create(db *gorm.DB, bill *entity.Bill) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error)
	// FindByIDForUpdate locks the bill row until the transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error)
	FindAll(db *gorm.DB, filter entity.BillFilter) ([]entity.Bill, int64, error)
	// Update saves the bill header and replaces its line items.
	Update(db *gorm.DB, bill *entity.Bill) error
	// Delete returns the number of bills removed.
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	SumCommitted(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error)
}
