package usecase

import (
	"context"
	"errors"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAll(ctx context.Context, query dto.AuditLogListQuery) ([]dto.AuditLogResponse, int64, error)
	GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	transactor   database.Transactor
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		transactor:   transactor,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAll(ctx context.Context, query dto.AuditLogListQuery) ([]dto.AuditLogResponse, int64, error) {
	logs, total, err := u.auditLogRepo.FindAll(u.transactor.Conn(ctx), entity.AuditLogFilter{
		Action: query.Action,
		UserID: query.UserID,
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, 0, err
	}

	return converter.AuditLogsToResponses(logs), total, nil
}

func (u *auditLogUsecase) GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
