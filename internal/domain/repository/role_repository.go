package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(db *gorm.DB, id int) (*entity.Role, error)
	FindAll(db *gorm.DB) ([]entity.Role, error)
}
