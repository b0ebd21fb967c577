package usecase

import (
	"context"
	"errors"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound      = service.ErrDepartmentNotFound
	ErrDoctorNotFound          = service.ErrDoctorNotFound
	ErrDepartmentAlreadyExists = errors.New("department name already exists")
	ErrDepartmentInUse         = errors.New("department is still referenced by doctors, staff or procedures")
	ErrInvalidPercentages      = errors.New("hospital_percentage and doctor_percentage must add up to 100")
	ErrStaffNotFound           = errors.New("staff member not found")
)

var hundred = decimal.NewFromInt(100)

type DepartmentUsecase interface {
	Create(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	GetAll(ctx context.Context) ([]dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type departmentUsecase struct {
	transactor     database.Transactor
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
}

func NewDepartmentUsecase(transactor database.Transactor, log *logrus.Logger, departmentRepo repository.DepartmentRepository) DepartmentUsecase {
	return &departmentUsecase{
		transactor:     transactor,
		log:            log,
		departmentRepo: departmentRepo,
	}
}

func (u *departmentUsecase) Create(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	department := &entity.Department{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := u.departmentRepo.Create(u.transactor.Conn(ctx), department); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentAlreadyExists
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) GetAll(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := u.departmentRepo.FindAll(u.transactor.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}
	return converter.DepartmentsToResponses(departments), nil
}

func (u *departmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	db := u.transactor.Conn(ctx)

	department, err := u.departmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	department.Name = req.Name
	department.Description = req.Description
	if err := u.departmentRepo.Update(db, department); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrDepartmentAlreadyExists
		}
		u.log.Warnf("Failed to update department: %+v", err)
		return nil, err
	}

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	db := u.transactor.Conn(ctx)

	department, err := u.departmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	if err := u.departmentRepo.Delete(db, id); err != nil {
		if isForeignKeyError(err, "department_id") {
			return ErrDepartmentInUse
		}
		u.log.Warnf("Failed to delete department: %+v", err)
		return err
	}
	return nil
}

type DoctorUsecase interface {
	Create(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	GetAll(ctx context.Context, departmentID *uuid.UUID) ([]dto.DoctorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.DoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	transactor     database.Transactor
	log            *logrus.Logger
	doctorRepo     repository.DoctorRepository
	departmentRepo repository.DepartmentRepository
}

func NewDoctorUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	departmentRepo repository.DepartmentRepository,
) DoctorUsecase {
	return &doctorUsecase{
		transactor:     transactor,
		log:            log,
		doctorRepo:     doctorRepo,
		departmentRepo: departmentRepo,
	}
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	doctor := &entity.Doctor{}
	if err := u.apply(ctx, doctor, req); err != nil {
		return nil, err
	}

	if err := u.doctorRepo.Create(u.transactor.Conn(ctx), doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAll(ctx context.Context, departmentID *uuid.UUID) ([]dto.DoctorResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.transactor.Conn(ctx), departmentID)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToResponses(doctors), nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.DoctorRequest) (*dto.DoctorResponse, error) {
	db := u.transactor.Conn(ctx)

	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.apply(ctx, doctor, req); err != nil {
		return nil, err
	}
	if err := u.doctorRepo.Update(db, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	db := u.transactor.Conn(ctx)

	doctor, err := u.doctorRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.SoftDelete(db, id); err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	return nil
}

// apply copies the request onto the doctor after checking the department
// and the contract split.
func (u *doctorUsecase) apply(ctx context.Context, doctor *entity.Doctor, req *dto.DoctorRequest) error {
	if !req.HospitalPercentage.Add(req.DoctorPercentage).Equal(hundred) {
		return ErrInvalidPercentages
	}

	department, err := u.departmentRepo.FindByID(u.transactor.Conn(ctx), req.DepartmentID)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	doctor.UserID = req.UserID
	doctor.FullName = req.FullName
	doctor.DepartmentID = department.ID
	doctor.Department = *department
	doctor.Specialization = req.Specialization
	doctor.Qualification = req.Qualification
	doctor.Contact = req.Contact
	doctor.ConsultationFee = req.ConsultationFee
	doctor.HospitalPercentage = req.HospitalPercentage
	doctor.DoctorPercentage = req.DoctorPercentage
	return nil
}

type StaffUsecase interface {
	Create(ctx context.Context, req *dto.StaffRequest) (*dto.StaffResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.StaffResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.StaffRequest) (*dto.StaffResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type staffUsecase struct {
	transactor     database.Transactor
	log            *logrus.Logger
	staffRepo      repository.StaffRepository
	departmentRepo repository.DepartmentRepository
}

func NewStaffUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	departmentRepo repository.DepartmentRepository,
) StaffUsecase {
	return &staffUsecase{
		transactor:     transactor,
		log:            log,
		staffRepo:      staffRepo,
		departmentRepo: departmentRepo,
	}
}

func (u *staffUsecase) Create(ctx context.Context, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	staff := &entity.Staff{}
	if err := u.apply(u.transactor.Conn(ctx), staff, req); err != nil {
		return nil, err
	}

	if err := u.staffRepo.Create(u.transactor.Conn(ctx), staff); err != nil {
		u.log.Warnf("Failed to create staff: %+v", err)
		return nil, err
	}
	return converter.StaffToResponse(staff), nil
}

func (u *staffUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.StaffResponse, int64, error) {
	staff, total, err := u.staffRepo.FindAll(u.transactor.Conn(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return nil, 0, err
	}
	return converter.StaffListToResponses(staff), total, nil
}

func (u *staffUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.StaffResponse, error) {
	staff, err := u.staffRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return converter.StaffToResponse(staff), nil
}

func (u *staffUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.StaffRequest) (*dto.StaffResponse, error) {
	db := u.transactor.Conn(ctx)

	staff, err := u.staffRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	if err := u.apply(db, staff, req); err != nil {
		return nil, err
	}
	if err := u.staffRepo.Update(db, staff); err != nil {
		u.log.Warnf("Failed to update staff: %+v", err)
		return nil, err
	}
	return converter.StaffToResponse(staff), nil
}

func (u *staffUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	db := u.transactor.Conn(ctx)

	staff, err := u.staffRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}

	if err := u.staffRepo.SoftDelete(db, id); err != nil {
		u.log.Warnf("Failed to delete staff: %+v", err)
		return err
	}
	return nil
}

func (u *staffUsecase) apply(db *gorm.DB, staff *entity.Staff, req *dto.StaffRequest) error {
	staff.Department = nil
	if req.DepartmentID != nil {
		department, err := u.departmentRepo.FindByID(db, *req.DepartmentID)
		if err != nil {
			u.log.Warnf("Failed to find department: %+v", err)
			return err
		}
		if department == nil {
			return ErrDepartmentNotFound
		}
		staff.Department = department
	}

	staff.FullName = req.FullName
	staff.Designation = req.Designation
	staff.Contact = req.Contact
	staff.Email = req.Email
	staff.DepartmentID = req.DepartmentID
	return nil
}
