package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct{}

func NewStaffRepository() domainRepo.StaffRepository {
	return &staffRepository{}
}

func (r *staffRepository) Create(db *gorm.DB, staff *entity.Staff) error {
	return db.Omit("Department").Create(staff).Error
}

func (r *staffRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	var staff entity.Staff
	err := db.Preload("Department").Where("id = ? AND deleted = ?", id, false).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.Staff, int64, error) {
	var staff []entity.Staff
	var total int64

	query := db.Model(&entity.Staff{}).Where("deleted = ?", false).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Department").Scopes(paginate(limit, offset)).Order("full_name").Find(&staff).Error
	if err != nil {
		return nil, 0, err
	}
	return staff, total, nil
}

func (r *staffRepository) Update(db *gorm.DB, staff *entity.Staff) error {
	return db.Omit("Department").Save(staff).Error
}

func (r *staffRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Staff{}).Where("id = ?", id).Update("deleted", true).Error
}
