package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrMRNoCollision   = errors.New("could not generate a unique MR number")
	ErrTokenConflict   = errors.New("could not assign a unique token, please retry")
	ErrInvalidAmount   = errors.New("amounts must not be negative")
)

// maxTokenAttempts bounds how often a booking retries after the token unique
// index rejected its number.
const maxTokenAttempts = 3

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error)
	GetAll(ctx context.Context, search string, page, limit int) ([]dto.PatientResponse, int64, error)
	GetByMRNo(ctx context.Context, mrNo string) (*dto.PatientResponse, error)
	Update(ctx context.Context, mrNo string, req *dto.PatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, mrNo string) error
	AddVisit(ctx context.Context, mrNo string, req *dto.CreateVisitRequest) (*dto.VisitResponse, error)
	GetVisits(ctx context.Context, mrNo string) ([]dto.VisitResponse, error)
}

type patientUsecase struct {
	transactor   database.Transactor
	log          *logrus.Logger
	patientRepo  repository.PatientRepository
	visitRepo    repository.PatientVisitRepository
	doctorRepo   repository.DoctorRepository
	tokenService service.TokenService
	generateMRNo func(time.Time) string
	now          func() time.Time
}

func NewPatientUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	visitRepo repository.PatientVisitRepository,
	doctorRepo repository.DoctorRepository,
	tokenService service.TokenService,
) PatientUsecase {
	return &patientUsecase{
		transactor:   transactor,
		log:          log,
		patientRepo:  patientRepo,
		visitRepo:    visitRepo,
		doctorRepo:   doctorRepo,
		tokenService: tokenService,
		generateMRNo: service.GenerateMRNo,
		now:          time.Now,
	}
}

// newMRNo draws an MR number and regenerates it once if it is taken.
func newMRNo(db *gorm.DB, patientRepo repository.PatientRepository, generate func(time.Time) string, now time.Time) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		mrNo := generate(now)
		exists, err := patientRepo.ExistsByMRNo(db, mrNo)
		if err != nil {
			return "", err
		}
		if !exists {
			return mrNo, nil
		}
	}
	return "", ErrMRNoCollision
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	patient := &entity.Patient{
		Name:       req.Name,
		ContactNo:  req.ContactNo,
		Age:        req.Age,
		Gender:     entity.Gender(req.Gender),
		Address:    req.Address,
		IsExternal: req.IsExternal,
	}

	db := u.transactor.Conn(ctx)
	mrNo, err := newMRNo(db, u.patientRepo, u.generateMRNo, u.now())
	if err != nil {
		u.log.Warnf("Failed to generate MR number: %+v", err)
		return nil, err
	}
	patient.MRNo = mrNo

	if err := u.patientRepo.Create(db, patient); err != nil {
		if isDuplicateKeyError(err, "mr_no") {
			return nil, ErrMRNoCollision
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient %s registered", patient.MRNo)
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetAll(ctx context.Context, search string, page, limit int) ([]dto.PatientResponse, int64, error) {
	patients, total, err := u.patientRepo.FindAll(u.transactor.Conn(ctx), search, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, 0, err
	}
	return converter.PatientsToResponses(patients), total, nil
}

func (u *patientUsecase) find(db *gorm.DB, mrNo string) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByMRNo(db, mrNo)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *patientUsecase) GetByMRNo(ctx context.Context, mrNo string) (*dto.PatientResponse, error) {
	db := u.transactor.Conn(ctx)
	patient, err := u.find(db, mrNo)
	if err != nil {
		return nil, err
	}

	visits, err := u.visitRepo.FindByPatient(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find visits: %+v", err)
		return nil, err
	}
	patient.Visits = visits

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) Update(ctx context.Context, mrNo string, req *dto.PatientRequest) (*dto.PatientResponse, error) {
	db := u.transactor.Conn(ctx)
	patient, err := u.find(db, mrNo)
	if err != nil {
		return nil, err
	}

	patient.Name = req.Name
	patient.ContactNo = req.ContactNo
	patient.Age = req.Age
	patient.Gender = entity.Gender(req.Gender)
	patient.Address = req.Address
	patient.IsExternal = req.IsExternal

	if err := u.patientRepo.Update(db, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) Delete(ctx context.Context, mrNo string) error {
	db := u.transactor.Conn(ctx)
	patient, err := u.find(db, mrNo)
	if err != nil {
		return err
	}

	if err := u.patientRepo.SoftDelete(db, patient.ID); err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}
	return nil
}

// AddVisit books an OPD visit with the doctor's next token of the day.
func (u *patientUsecase) AddVisit(ctx context.Context, mrNo string, req *dto.CreateVisitRequest) (*dto.VisitResponse, error) {
	db := u.transactor.Conn(ctx)
	patient, err := u.find(db, mrNo)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	visitDate := u.now()
	if req.VisitDate != nil && !req.VisitDate.IsZero() {
		visitDate = *req.VisitDate
	}

	fee := doctor.ConsultationFee
	if req.DoctorFee != nil {
		if req.DoctorFee.IsNegative() {
			return nil, ErrInvalidAmount
		}
		fee = *req.DoctorFee
	}

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		assignment, err := u.tokenService.AssignDoctorToken(ctx, doctor.ID, &visitDate)
		if err != nil {
			return nil, err
		}

		visit := &entity.PatientVisit{
			PatientID:     patient.ID,
			DoctorID:      &doctor.ID,
			Kind:          entity.VisitKindOPD,
			VisitDate:     visitDate,
			TokenDate:     assignment.TokenDate,
			Token:         assignment.Token,
			Purpose:       req.Purpose,
			Disease:       req.Disease,
			ReferredBy:    req.ReferredBy,
			DoctorFee:     fee,
			Discount:      req.Discount,
			AmountPaid:    req.AmountPaid,
			PaymentMethod: req.PaymentMethod,
		}
		visit.ApplyFees()

		err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
			if err := u.visitRepo.Create(tx, visit); err != nil {
				return err
			}
			return u.patientRepo.RecordVisit(tx, patient.ID, visitDate)
		})
		if err == nil {
			visit.Doctor = doctor
			u.log.Infof("OPD visit %s booked for patient %s with token %s", visit.ID, patient.MRNo, visit.Token)
			return converter.VisitToResponse(visit), nil
		}
		if !isDuplicateKeyError(err, "uq_patient_visits_doctor_token") {
			u.log.Warnf("Failed to create visit: %+v", err)
			return nil, err
		}

		u.log.Warnf("Token %s for doctor %s already taken, resyncing (attempt %d)", visit.Token, doctor.ID, attempt)
		if err := u.tokenService.ResyncDoctorCounter(ctx, doctor.ID, visitDate); err != nil {
			return nil, err
		}
	}

	return nil, ErrTokenConflict
}

func (u *patientUsecase) GetVisits(ctx context.Context, mrNo string) ([]dto.VisitResponse, error) {
	db := u.transactor.Conn(ctx)
	patient, err := u.find(db, mrNo)
	if err != nil {
		return nil, err
	}

	visits, err := u.visitRepo.FindByPatient(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find visits: %+v", err)
		return nil, err
	}
	return converter.VisitsToResponses(visits), nil
}
