package repository

import (
	"errors"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit("Visits").Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ? AND deleted = ?", id, false).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByMRNo(db *gorm.DB, mrNo string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("mr_no = ? AND deleted = ?", mrNo, false).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) ExistsByMRNo(db *gorm.DB, mrNo string) (bool, error) {
	var count int64
	err := db.Model(&entity.Patient{}).Where("mr_no = ?", mrNo).Count(&count).Error
	return count > 0, err
}

func (r *patientRepository) FindAll(db *gorm.DB, search string, limit, offset int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := db.Model(&entity.Patient{}).Where("deleted = ?", false)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR mr_no ILIKE ? OR contact_no ILIKE ?", like, like, like)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(paginate(limit, offset)).Order("created_at DESC").Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit("Visits").Save(patient).Error
}

func (r *patientRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Patient{}).Where("id = ?", id).Update("deleted", true).Error
}

func (r *patientRepository) RecordVisit(db *gorm.DB, id uuid.UUID, visitDate time.Time) error {
	return db.Model(&entity.Patient{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_visits": gorm.Expr("total_visits + 1"),
		"last_visit":   visitDate,
	}).Error
}

type patientVisitRepository struct{}

func NewPatientVisitRepository() domainRepo.PatientVisitRepository {
	return &patientVisitRepository{}
}

func (r *patientVisitRepository) Create(db *gorm.DB, visit *entity.PatientVisit) error {
	return db.Omit("Doctor").Create(visit).Error
}

func (r *patientVisitRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientVisit, error) {
	var visit entity.PatientVisit
	err := db.Preload("Doctor").Where("id = ?", id).First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &visit, nil
}

func (r *patientVisitRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.PatientVisit, error) {
	var visits []entity.PatientVisit
	err := db.Preload("Doctor").Where("patient_id = ?", patientID).Order("visit_date DESC").Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *patientVisitRepository) FindDoctorTokens(db *gorm.DB, doctorID uuid.UUID, tokenDate time.Time) ([]string, error) {
	var tokens []string
	err := db.Model(&entity.PatientVisit{}).
		Joins("JOIN patients ON patients.id = patient_visits.patient_id").
		Where("patient_visits.doctor_id = ? AND patient_visits.kind = ?", doctorID, entity.VisitKindOPD).
		Where("patient_visits.token_date = ?", tokenDate.Format("2006-01-02")).
		Where("patients.deleted = ?", false).
		Pluck("patient_visits.token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *patientVisitRepository) SumPaidByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRevenue, error) {
	var rows []entity.DoctorRevenue

	query := db.Model(&entity.PatientVisit{}).
		Select(`doctors.id AS doctor_id,
			doctors.full_name AS doctor_name,
			doctors.hospital_percentage,
			doctors.doctor_percentage,
			COUNT(patient_visits.id) AS visit_count,
			COALESCE(SUM(patient_visits.amount_paid), 0) AS total_paid`).
		Joins("JOIN doctors ON doctors.id = patient_visits.doctor_id").
		Where("patient_visits.kind = ?", entity.VisitKindOPD).
		Where("patient_visits.visit_date >= ? AND patient_visits.visit_date < ?", dr.From, dr.To)
	if doctorID != nil {
		query = query.Where("patient_visits.doctor_id = ?", *doctorID)
	}

	err := query.Group("doctors.id, doctors.full_name, doctors.hospital_percentage, doctors.doctor_percentage").
		Order("doctors.full_name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
