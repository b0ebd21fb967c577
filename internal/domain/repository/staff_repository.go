package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(db *gorm.DB, staff *entity.Staff) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.Staff, int64, error)
	Update(db *gorm.DB, staff *entity.Staff) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
}
