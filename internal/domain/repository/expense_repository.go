package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(db *gorm.DB, expense *entity.Expense) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Expense, error)
	FindAll(db *gorm.DB, filter entity.ExpenseFilter) ([]entity.Expense, int64, error)
	Update(db *gorm.DB, expense *entity.Expense) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
	DoctorSummary(db *gorm.DB, dr *entity.DateRange) ([]entity.ExpenseDoctorSummary, error)
	GrandTotals(db *gorm.DB, dr *entity.DateRange) (entity.ExpenseGrandTotals, error)
}
