package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindAll(db *gorm.DB, departmentID *uuid.UUID) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
}
