package repository

import (
	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindAll(db *gorm.DB, limit, offset int) ([]entity.User, int64, error)
	Update(db *gorm.DB, user *entity.User) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
}
