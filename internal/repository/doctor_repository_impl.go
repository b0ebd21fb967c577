package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Department").Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Department").Where("id = ? AND deleted = ?", id, false).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, departmentID *uuid.UUID) ([]entity.Doctor, error) {
	var doctors []entity.Doctor

	query := db.Preload("Department").Where("deleted = ?", false)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}

	if err := query.Order("full_name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Department").Save(doctor).Error
}

func (r *doctorRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Doctor{}).Where("id = ?", id).Update("deleted", true).Error
}
