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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrProcedureNotFound       = errors.New("procedure not found")
	ErrInvalidProcedureStatus  = errors.New("invalid status value")
	ErrExternalDetailsRequired = errors.New("external patient details (name and contact number) are required for new patients")
)

type ProcedureUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error)
	GetAll(ctx context.Context, query dto.ProcedureListQuery) ([]dto.ProcedureResponse, int64, error)
	GetByPatientMRNo(ctx context.Context, mrNo string) ([]dto.ProcedureResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateProcedureRequest) (*dto.ProcedureResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

type procedureUsecase struct {
	transactor    database.Transactor
	log           *logrus.Logger
	procedureRepo repository.ProcedureRepository
	patientRepo   repository.PatientRepository
	visitRepo     repository.PatientVisitRepository
	doctorRepo    repository.DoctorRepository
	tokenService  service.TokenService
	auditService  service.AuditService
	generateMRNo  func(time.Time) string
	now           func() time.Time
}

func NewProcedureUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	procedureRepo repository.ProcedureRepository,
	patientRepo repository.PatientRepository,
	visitRepo repository.PatientVisitRepository,
	doctorRepo repository.DoctorRepository,
	tokenService service.TokenService,
	auditService service.AuditService,
) ProcedureUsecase {
	return &procedureUsecase{
		transactor:    transactor,
		log:           log,
		procedureRepo: procedureRepo,
		patientRepo:   patientRepo,
		visitRepo:     visitRepo,
		doctorRepo:    doctorRepo,
		tokenService:  tokenService,
		auditService:  auditService,
		generateMRNo:  service.GenerateMRNo,
		now:           time.Now,
	}
}

// Create books a procedure. A patient that cannot be found by MR number is
// registered from the external details with a fresh MR number.
func (u *procedureUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error) {
	if req.Price.IsNegative() || req.AmountPaid.IsNegative() {
		return nil, ErrInvalidAmount
	}

	db := u.transactor.Conn(ctx)

	var patient *entity.Patient
	if req.PatientMRNo != "" {
		found, err := u.patientRepo.FindByMRNo(db, req.PatientMRNo)
		if err != nil {
			u.log.Warnf("Failed to find patient: %+v", err)
			return nil, err
		}
		patient = found
	}

	newPatient := patient == nil
	if newPatient {
		details := req.ExternalPatientDetails
		if details == nil || details.Name == "" || details.ContactNo == "" {
			return nil, ErrExternalDetailsRequired
		}

		mrNo, err := newMRNo(db, u.patientRepo, u.generateMRNo, u.now())
		if err != nil {
			u.log.Warnf("Failed to generate MR number: %+v", err)
			return nil, err
		}

		patient = &entity.Patient{
			MRNo:       mrNo,
			Name:       details.Name,
			ContactNo:  details.ContactNo,
			Age:        details.Age,
			Gender:     entity.Gender(details.Gender),
			Address:    details.Address,
			IsExternal: true,
		}
	}

	var doctor *entity.Doctor
	if req.DoctorID != nil {
		found, err := u.doctorRepo.FindByID(db, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return nil, err
		}
		if found == nil {
			return nil, ErrDoctorNotFound
		}
		doctor = found
	}

	scheduled := u.now()
	if req.ScheduledDate != nil && !req.ScheduledDate.IsZero() {
		scheduled = *req.ScheduledDate
	}

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		assignment, err := u.tokenService.AssignDepartmentToken(ctx, req.DepartmentID, &scheduled)
		if err != nil {
			return nil, err
		}

		procedure := &entity.Procedure{
			PatientMRNo:      patient.MRNo,
			IsExternal:       newPatient,
			Token:            assignment.Token,
			TokenNumber:      assignment.TokenNumber,
			DepartmentPrefix: assignment.DepartmentPrefix,
			TokenDate:        assignment.TokenDate,
			ProcedureName:    req.ProcedureName,
			DepartmentID:     req.DepartmentID,
			Category:         req.Category,
			Description:      req.Description,
			ScheduledDate:    scheduled,
			DurationMinutes:  req.DurationMinutes,
			Price:            req.Price,
			Status:           entity.ProcedureStatusScheduled,
			Notes:            req.Notes,
			AmountPaid:       req.AmountPaid,
			PaymentMethod:    req.PaymentMethod,
			BillingStatus:    entity.BillingStatusFor(req.AmountPaid, req.Price),
		}
		if newPatient {
			procedure.ExternalPatientDetails = datatypes.NewJSONType(entity.ExternalPatientDetails{
				Name:      patient.Name,
				ContactNo: patient.ContactNo,
				Age:       patient.Age,
				Gender:    patient.Gender,
				Address:   patient.Address,
			})
		}
		if doctor != nil {
			procedure.DoctorID = &doctor.ID
			procedure.DoctorName = doctor.FullName
			procedure.DoctorDepartment = doctor.Department.Name
		}
		if procedure.AmountPaid.IsPositive() {
			paidAt := u.now()
			procedure.PaymentDate = &paidAt
		}

		err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
			if newPatient {
				if err := u.patientRepo.Create(tx, patient); err != nil {
					return err
				}
			}
			procedure.PatientID = patient.ID

			if err := u.procedureRepo.Create(tx, procedure); err != nil {
				return err
			}

			visit := &entity.PatientVisit{
				PatientID:     patient.ID,
				DoctorID:      procedure.DoctorID,
				ProcedureID:   &procedure.ID,
				Kind:          entity.VisitKindProcedure,
				VisitDate:     scheduled,
				TokenDate:     assignment.TokenDate,
				Token:         assignment.Token,
				Purpose:       "Procedure: " + req.ProcedureName,
				Disease:       req.Description,
				ReferredBy:    req.Notes,
				PaymentMethod: "cash",
			}
			visit.ApplyFees()
			if err := u.visitRepo.Create(tx, visit); err != nil {
				return err
			}
			if err := u.patientRepo.RecordVisit(tx, patient.ID, scheduled); err != nil {
				return err
			}

			return u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionProcedureCreate, "procedure", procedure.ID.String(), converter.ProcedureToResponse(procedure))
		})
		if err == nil {
			procedure.Patient = *patient
			procedure.Department = entity.Department{ID: req.DepartmentID, Name: assignment.DepartmentName}
			u.log.Infof("Procedure %s booked for patient %s with token %s", procedure.ID, patient.MRNo, procedure.Token)
			return converter.ProcedureToResponse(procedure), nil
		}
		if !isDuplicateKeyError(err, "uq_procedures_department_token") {
			u.log.Warnf("Failed to create procedure: %+v", err)
			return nil, err
		}

		u.log.Warnf("Token %s for department %s already taken, resyncing (attempt %d)", procedure.Token, req.DepartmentID, attempt)
		if err := u.tokenService.ResyncDepartmentCounter(ctx, req.DepartmentID, scheduled); err != nil {
			return nil, err
		}
	}

	return nil, ErrTokenConflict
}

func (u *procedureUsecase) GetAll(ctx context.Context, query dto.ProcedureListQuery) ([]dto.ProcedureResponse, int64, error) {
	filter := entity.ProcedureFilter{
		PatientMRNo:  query.PatientMRNo,
		DepartmentID: query.DepartmentID,
		Status:       entity.ProcedureStatus(query.Status),
		Category:     query.Category,
		Limit:        query.Limit,
		Offset:       (query.Page - 1) * query.Limit,
	}

	procedures, total, err := u.procedureRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find procedures: %+v", err)
		return nil, 0, err
	}
	return converter.ProceduresToResponses(procedures), total, nil
}

func (u *procedureUsecase) GetByPatientMRNo(ctx context.Context, mrNo string) ([]dto.ProcedureResponse, error) {
	procedures, _, err := u.procedureRepo.FindAll(u.transactor.Conn(ctx), entity.ProcedureFilter{PatientMRNo: mrNo})
	if err != nil {
		u.log.Warnf("Failed to find procedures for %s: %+v", mrNo, err)
		return nil, err
	}
	return converter.ProceduresToResponses(procedures), nil
}

func (u *procedureUsecase) find(db *gorm.DB, id uuid.UUID) (*entity.Procedure, error) {
	procedure, err := u.procedureRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find procedure: %+v", err)
		return nil, err
	}
	if procedure == nil {
		return nil, ErrProcedureNotFound
	}
	return procedure, nil
}

// Update applies the set fields. Recording a payment stamps the payment
// date; the billing status follows the paid amount and the price.
func (u *procedureUsecase) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateProcedureRequest) (*dto.ProcedureResponse, error) {
	if req.Status != nil && !entity.ProcedureStatus(*req.Status).IsValid() {
		return nil, ErrInvalidProcedureStatus
	}
	if (req.Price != nil && req.Price.IsNegative()) || (req.AmountPaid != nil && req.AmountPaid.IsNegative()) {
		return nil, ErrInvalidAmount
	}

	db := u.transactor.Conn(ctx)
	procedure, err := u.find(db, id)
	if err != nil {
		return nil, err
	}
	old := converter.ProcedureToResponse(procedure)

	if req.DoctorID != nil {
		doctor, err := u.doctorRepo.FindByID(db, *req.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		procedure.DoctorID = &doctor.ID
		procedure.DoctorName = doctor.FullName
		procedure.DoctorDepartment = doctor.Department.Name
	}

	if req.ProcedureName != nil {
		procedure.ProcedureName = *req.ProcedureName
	}
	if req.Category != nil {
		procedure.Category = *req.Category
	}
	if req.Description != nil {
		procedure.Description = *req.Description
	}
	if req.ScheduledDate != nil && !req.ScheduledDate.IsZero() {
		procedure.ScheduledDate = *req.ScheduledDate
	}
	if req.DurationMinutes != nil {
		procedure.DurationMinutes = req.DurationMinutes
	}
	if req.Price != nil {
		procedure.Price = *req.Price
	}
	if req.Status != nil {
		procedure.Status = entity.ProcedureStatus(*req.Status)
	}
	if req.Notes != nil {
		procedure.Notes = *req.Notes
	}
	if req.PaymentMethod != nil {
		procedure.PaymentMethod = *req.PaymentMethod
	}
	if req.AmountPaid != nil {
		procedure.AmountPaid = *req.AmountPaid
		paidAt := u.now()
		procedure.PaymentDate = &paidAt
	}
	procedure.BillingStatus = entity.BillingStatusFor(procedure.AmountPaid, procedure.Price)

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.procedureRepo.Update(tx, procedure); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionProcedureUpdate, "procedure", procedure.ID.String(), old, converter.ProcedureToResponse(procedure))
	})
	if err != nil {
		u.log.Warnf("Failed to update procedure: %+v", err)
		return nil, err
	}

	u.log.Infof("Procedure %s updated, billing %s", procedure.ID, procedure.BillingStatus)
	return converter.ProcedureToResponse(procedure), nil
}

func (u *procedureUsecase) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	procedure, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return err
	}

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.procedureRepo.SoftDelete(tx, procedure.ID); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionProcedureDelete, "procedure", procedure.ID.String(), converter.ProcedureToResponse(procedure))
	})
	if err != nil {
		u.log.Warnf("Failed to delete procedure: %+v", err)
		return err
	}

	u.log.Infof("Procedure %s deleted", procedure.ID)
	return nil
}
