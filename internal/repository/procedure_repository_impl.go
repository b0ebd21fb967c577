package repository

import (
	"errors"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type procedureRepository struct{}

func NewProcedureRepository() domainRepo.ProcedureRepository {
	return &procedureRepository{}
}

func (r *procedureRepository) Create(db *gorm.DB, procedure *entity.Procedure) error {
	return db.Omit("Patient", "Department").Create(procedure).Error
}

func (r *procedureRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Procedure, error) {
	var procedure entity.Procedure
	err := db.Preload("Patient").Preload("Department").
		Where("id = ? AND deleted = ?", id, false).
		First(&procedure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &procedure, nil
}

func (r *procedureRepository) FindAll(db *gorm.DB, filter entity.ProcedureFilter) ([]entity.Procedure, int64, error) {
	var procedures []entity.Procedure
	var total int64

	query := db.Model(&entity.Procedure{}).Where("deleted = ?", false)
	if filter.PatientMRNo != "" {
		query = query.Where("patient_mr_no = ?", filter.PatientMRNo)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Patient").Preload("Department").
		Scopes(paginate(filter.Limit, filter.Offset)).
		Order("scheduled_date DESC").
		Find(&procedures).Error
	if err != nil {
		return nil, 0, err
	}
	return procedures, total, nil
}

func (r *procedureRepository) Update(db *gorm.DB, procedure *entity.Procedure) error {
	return db.Omit("Patient", "Department").Save(procedure).Error
}

func (r *procedureRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Procedure{}).Where("id = ?", id).Update("deleted", true).Error
}

func (r *procedureRepository) MaxTokenNumber(db *gorm.DB, departmentID uuid.UUID, tokenDate time.Time) (int, error) {
	var procedure entity.Procedure
	err := db.Select("token_number").
		Where("department_id = ? AND deleted = ?", departmentID, false).
		Where("token_date = ?", tokenDate.Format("2006-01-02")).
		Order("token_number DESC").
		Limit(1).
		Take(&procedure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return procedure.TokenNumber, nil
}

func (r *procedureRepository) SumPaid(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	var row entity.RevenueTotal
	err := db.Model(&entity.Procedure{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_paid), 0) AS total").
		Where("deleted = ?", false).
		Where("scheduled_date >= ? AND scheduled_date < ?", dr.From, dr.To).
		Scan(&row).Error
	return row, err
}
