package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(db *gorm.DB, department *entity.Department) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Department, error)
	FindAll(db *gorm.DB) ([]entity.Department, error)
	Update(db *gorm.DB, department *entity.Department) error
	Delete(db *gorm.DB, id uuid.UUID) error
}
