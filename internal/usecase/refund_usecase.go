package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRefundNotFound          = errors.New("refund not found")
	ErrVisitNotFound           = errors.New("visit not found for this patient")
	ErrRefundExceedsPaid       = errors.New("refund amount exceeds the amount still refundable on this visit")
	ErrInvalidRefundStatus     = errors.New("invalid refund status")
	ErrInvalidRefundTransition = errors.New("refund status change not allowed")
)

type RefundUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateRefundRequest) (*dto.RefundResponse, error)
	GetAll(ctx context.Context, query dto.RefundListQuery) ([]dto.RefundResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.RefundResponse, error)
	GetByPatientMRNo(ctx context.Context, mrNo string) ([]dto.RefundResponse, error)
	GetRefundableVisits(ctx context.Context, mrNo string) ([]dto.RefundableVisitResponse, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateRefundStatusRequest) (*dto.RefundResponse, error)
	GetStatistics(ctx context.Context) (*dto.RefundStatisticsResponse, error)
}

type refundUsecase struct {
	transactor   database.Transactor
	log          *logrus.Logger
	location     *time.Location
	refundRepo   repository.RefundRepository
	patientRepo  repository.PatientRepository
	visitRepo    repository.PatientVisitRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewRefundUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	location *time.Location,
	refundRepo repository.RefundRepository,
	patientRepo repository.PatientRepository,
	visitRepo repository.PatientVisitRepository,
	auditService service.AuditService,
) RefundUsecase {
	if location == nil {
		location = time.UTC
	}
	return &refundUsecase{
		transactor:   transactor,
		log:          log,
		location:     location,
		refundRepo:   refundRepo,
		patientRepo:  patientRepo,
		visitRepo:    visitRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *refundUsecase) findPatient(db *gorm.DB, mrNo string) (*entity.Patient, error) {
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

// Create records a pending refund. The amount is checked against what was
// paid on the visit minus every refund that was not rejected.
func (u *refundUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateRefundRequest) (*dto.RefundResponse, error) {
	if !req.RefundAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	db := u.transactor.Conn(ctx)
	patient, err := u.findPatient(db, req.PatientMRNo)
	if err != nil {
		return nil, err
	}

	visit, err := u.visitRepo.FindByID(db, req.VisitID)
	if err != nil {
		u.log.Warnf("Failed to find visit: %+v", err)
		return nil, err
	}
	if visit == nil || visit.PatientID != patient.ID {
		return nil, ErrVisitNotFound
	}

	method := req.RefundMethod
	if method == "" {
		method = "cash"
	}

	refund := &entity.Refund{
		PatientID:    patient.ID,
		PatientMRNo:  patient.MRNo,
		VisitID:      visit.ID,
		RefundAmount: req.RefundAmount,
		Reason:       req.Reason,
		RefundMethod: method,
		Status:       entity.RefundStatusPending,
		Remarks:      req.Remarks,
		CreatedBy:    &actorID,
		CreatedAt:    u.now(),
	}

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		refunded, err := u.refundRepo.SumForVisit(tx, visit.ID)
		if err != nil {
			return err
		}
		if refund.RefundAmount.GreaterThan(visit.AmountPaid.Sub(refunded)) {
			return ErrRefundExceedsPaid
		}

		if err := u.refundRepo.Create(tx, refund); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionRefundCreate, "refund", refund.ID.String(), converter.RefundToResponse(refund))
	})
	if err != nil {
		if !errors.Is(err, ErrRefundExceedsPaid) {
			u.log.Warnf("Failed to create refund: %+v", err)
		}
		return nil, err
	}

	refund.Patient = *patient
	refund.Visit = *visit
	u.log.Infof("Refund %s of %s requested for visit %s", refund.ID, refund.RefundAmount, visit.ID)
	return converter.RefundToResponse(refund), nil
}

func (u *refundUsecase) GetAll(ctx context.Context, query dto.RefundListQuery) ([]dto.RefundResponse, int64, error) {
	filter := entity.RefundFilter{
		From:   query.From,
		To:     query.To,
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	}
	if query.Status != "" {
		status := entity.RefundStatus(query.Status)
		if !status.IsValid() {
			return nil, 0, ErrInvalidRefundStatus
		}
		filter.Status = status
	}

	refunds, total, err := u.refundRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find refunds: %+v", err)
		return nil, 0, err
	}
	return converter.RefundsToResponses(refunds), total, nil
}

func (u *refundUsecase) find(db *gorm.DB, id uuid.UUID) (*entity.Refund, error) {
	refund, err := u.refundRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find refund: %+v", err)
		return nil, err
	}
	if refund == nil {
		return nil, ErrRefundNotFound
	}
	return refund, nil
}

func (u *refundUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.RefundToResponse(refund), nil
}

func (u *refundUsecase) GetByPatientMRNo(ctx context.Context, mrNo string) ([]dto.RefundResponse, error) {
	db := u.transactor.Conn(ctx)
	if _, err := u.findPatient(db, mrNo); err != nil {
		return nil, err
	}

	refunds, err := u.refundRepo.FindByMRNo(db, mrNo)
	if err != nil {
		u.log.Warnf("Failed to find refunds for %s: %+v", mrNo, err)
		return nil, err
	}
	return converter.RefundsToResponses(refunds), nil
}

// GetRefundableVisits lists the patient's paid visits that still have money
// left to refund.
func (u *refundUsecase) GetRefundableVisits(ctx context.Context, mrNo string) ([]dto.RefundableVisitResponse, error) {
	db := u.transactor.Conn(ctx)
	patient, err := u.findPatient(db, mrNo)
	if err != nil {
		return nil, err
	}

	visits, err := u.visitRepo.FindByPatient(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find visits: %+v", err)
		return nil, err
	}

	responses := make([]dto.RefundableVisitResponse, 0, len(visits))
	for i := range visits {
		visit := &visits[i]
		if !visit.AmountPaid.IsPositive() {
			continue
		}

		refunded, err := u.refundRepo.SumForVisit(db, visit.ID)
		if err != nil {
			u.log.Warnf("Failed to sum refunds for visit %s: %+v", visit.ID, err)
			return nil, err
		}
		refundable := visit.AmountPaid.Sub(refunded)
		if !refundable.IsPositive() {
			continue
		}

		responses = append(responses, dto.RefundableVisitResponse{
			Visit:            *converter.VisitToResponse(visit),
			RefundedAmount:   refunded,
			RefundableAmount: refundable,
		})
	}
	return responses, nil
}

// UpdateStatus moves a refund along pending -> approved -> processed, or to
// rejected from either of the first two.
func (u *refundUsecase) UpdateStatus(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateRefundStatusRequest) (*dto.RefundResponse, error) {
	status := entity.RefundStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidRefundStatus
	}

	refund, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	if !refund.Status.CanTransitionTo(status) {
		return nil, ErrInvalidRefundTransition
	}

	old := converter.RefundToResponse(refund)
	processedAt := u.now()
	refund.Status = status
	refund.ProcessedBy = &actorID
	refund.ProcessedAt = &processedAt
	if req.Remarks != "" {
		refund.Remarks = req.Remarks
	}

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.refundRepo.Update(tx, refund); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionRefundStatus, "refund", refund.ID.String(), old, converter.RefundToResponse(refund))
	})
	if err != nil {
		u.log.Warnf("Failed to update refund status: %+v", err)
		return nil, err
	}

	u.log.Infof("Refund %s moved %s -> %s", refund.ID, old.Status, refund.Status)
	return converter.RefundToResponse(refund), nil
}

// GetStatistics reports count and sum per status, plus the refunds
// requested today that were not rejected.
func (u *refundUsecase) GetStatistics(ctx context.Context) (*dto.RefundStatisticsResponse, error) {
	db := u.transactor.Conn(ctx)

	rows, err := u.refundRepo.CountByStatus(db)
	if err != nil {
		u.log.Warnf("Failed to count refunds by status: %+v", err)
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })

	start, end := service.DayBounds(u.now(), u.location)
	today, err := u.refundRepo.SumCreatedIn(db, entity.DateRange{From: start, To: end})
	if err != nil {
		u.log.Warnf("Failed to sum today's refunds: %+v", err)
		return nil, err
	}

	byStatus := make([]dto.RefundStatusStatistic, len(rows))
	for i, row := range rows {
		byStatus[i] = dto.RefundStatusStatistic{
			Status: string(row.Status),
			Count:  row.Count,
			Total:  row.Total,
		}
	}

	return &dto.RefundStatisticsResponse{
		ByStatus:   byStatus,
		TodayCount: today.Count,
		TodayTotal: today.Total,
	}, nil
}
