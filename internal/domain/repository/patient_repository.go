package repository

import (
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	// FindByMRNo ignores soft-deleted patients.
	FindByMRNo(db *gorm.DB, mrNo string) (*entity.Patient, error)
	ExistsByMRNo(db *gorm.DB, mrNo string) (bool, error)
	FindAll(db *gorm.DB, search string, limit, offset int) ([]entity.Patient, int64, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	SoftDelete(db *gorm.DB, id uuid.UUID) error
	// RecordVisit bumps total_visits and moves last_visit forward.
	RecordVisit(db *gorm.DB, id uuid.UUID, visitDate time.Time) error
}

type PatientVisitRepository interface {
	Create(db *gorm.DB, visit *entity.PatientVisit) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientVisit, error)
	FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.PatientVisit, error)
	// FindDoctorTokens returns the OPD tokens issued for the doctor on tokenDate.
	FindDoctorTokens(db *gorm.DB, doctorID uuid.UUID, tokenDate time.Time) ([]string, error)
	SumPaidByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRevenue, error)
}
