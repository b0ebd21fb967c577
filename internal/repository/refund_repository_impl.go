package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var settledRefundStatuses = []entity.RefundStatus{entity.RefundStatusApproved, entity.RefundStatusProcessed}

type refundRepository struct{}

func NewRefundRepository() domainRepo.RefundRepository {
	return &refundRepository{}
}

func (r *refundRepository) Create(db *gorm.DB, refund *entity.Refund) error {
	return db.Omit("Patient", "Visit").Create(refund).Error
}

func (r *refundRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Refund, error) {
	var refund entity.Refund
	err := db.Preload("Patient").Preload("Visit.Doctor").Where("id = ?", id).First(&refund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindAll(db *gorm.DB, filter entity.RefundFilter) ([]entity.Refund, int64, error) {
	var refunds []entity.Refund
	var total int64

	query := db.Model(&entity.Refund{}).Scopes(between("created_at", filter.From, filter.To))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Patient").Preload("Visit.Doctor").
		Scopes(paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").
		Find(&refunds).Error
	if err != nil {
		return nil, 0, err
	}
	return refunds, total, nil
}

func (r *refundRepository) FindByMRNo(db *gorm.DB, mrNo string) ([]entity.Refund, error) {
	var refunds []entity.Refund
	err := db.Preload("Visit.Doctor").Where("patient_mr_no = ?", mrNo).Order("created_at DESC").Find(&refunds).Error
	if err != nil {
		return nil, err
	}
	return refunds, nil
}

func (r *refundRepository) Update(db *gorm.DB, refund *entity.Refund) error {
	return db.Omit("Patient", "Visit").Save(refund).Error
}

func (r *refundRepository) SumForVisit(db *gorm.DB, visitID uuid.UUID) (decimal.Decimal, error) {
	var row entity.RevenueTotal
	err := db.Model(&entity.Refund{}).
		Select("COUNT(*) AS count, COALESCE(SUM(refund_amount), 0) AS total").
		Where("visit_id = ? AND status <> ?", visitID, entity.RefundStatusRejected).
		Scan(&row).Error
	return row.Total, err
}

func (r *refundRepository) CountByStatus(db *gorm.DB) ([]entity.RefundStatusCount, error) {
	var rows []entity.RefundStatusCount
	err := db.Model(&entity.Refund{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(refund_amount), 0) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *refundRepository) SumCreatedIn(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	var row entity.RevenueTotal
	err := db.Model(&entity.Refund{}).
		Select("COUNT(*) AS count, COALESCE(SUM(refund_amount), 0) AS total").
		Where("status <> ?", entity.RefundStatusRejected).
		Where("created_at >= ? AND created_at < ?", dr.From, dr.To).
		Scan(&row).Error
	return row, err
}

func (r *refundRepository) SumSettledByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRefund, error) {
	var rows []entity.DoctorRefund

	query := db.Model(&entity.Refund{}).
		Select("patient_visits.doctor_id AS doctor_id, COALESCE(SUM(refunds.refund_amount), 0) AS total_refund").
		Joins("JOIN patient_visits ON patient_visits.id = refunds.visit_id").
		Where("patient_visits.doctor_id IS NOT NULL").
		Where("refunds.status IN ?", settledRefundStatuses).
		Where("refunds.created_at >= ? AND refunds.created_at < ?", dr.From, dr.To)
	if doctorID != nil {
		query = query.Where("patient_visits.doctor_id = ?", *doctorID)
	}

	if err := query.Group("patient_visits.doctor_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
