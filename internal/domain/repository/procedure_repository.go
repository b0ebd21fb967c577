package repository

import (
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcedureRepository interface {
	Create(db *gorm.DB, procedure *entity.Procedure) error
	// FindByID ignores soft-deleted procedures.
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Procedure, error)
	FindAll(db *gorm.DB, filter entity.ProcedureFilter) ([]entity.Procedure, int64, error)
	Update(db *gorm.DB, procedure *entity.Procedure) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
	// MaxTokenNumber returns the highest token number of live procedures for
	// the department on the given token day, or 0 when there are none. It
	// reads the same columns the partial unique index covers.
	MaxTokenNumber(db *gorm.DB, departmentID uuid.UUID, tokenDate time.Time) (int, error)
	SumPaid(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error)
}
