package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateRefundRequest struct {
	PatientMRNo  string          `json:"patient_mr_no" validate:"required"`
	VisitID      uuid.UUID       `json:"visit_id" validate:"required"`
	RefundAmount decimal.Decimal `json:"refund_amount" validate:"gt=0"`
	Reason       string          `json:"reason" validate:"required"`
	RefundMethod string          `json:"refund_method" validate:"omitempty,oneof=cash card bank_transfer online"`
	Remarks      string          `json:"remarks"`
}

type UpdateRefundStatusRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending approved processed rejected"`
	Remarks string `json:"remarks"`
}

type RefundListQuery struct {
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Response DTOs

type RefundResponse struct {
	ID           uuid.UUID       `json:"id"`
	PatientID    uuid.UUID       `json:"patient_id"`
	PatientMRNo  string          `json:"patient_mr_no"`
	PatientName  string          `json:"patient_name,omitempty"`
	VisitID      uuid.UUID       `json:"visit_id"`
	VisitToken   string          `json:"visit_token,omitempty"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Reason       string          `json:"reason"`
	RefundMethod string          `json:"refund_method"`
	Status       string          `json:"status"`
	Remarks      string          `json:"remarks,omitempty"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	ProcessedBy  *uuid.UUID      `json:"processed_by,omitempty"`
	ProcessedAt  *time.Time      `json:"processed_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// RefundableVisitResponse is a visit with money still available to refund
type RefundableVisitResponse struct {
	Visit            VisitResponse   `json:"visit"`
	RefundedAmount   decimal.Decimal `json:"refunded_amount"`
	RefundableAmount decimal.Decimal `json:"refundable_amount"`
}

type RefundStatusStatistic struct {
	Status string          `json:"status"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type RefundStatisticsResponse struct {
	ByStatus   []RefundStatusStatistic `json:"by_status"`
	TodayCount int64                   `json:"today_count"`
	TodayTotal decimal.Decimal         `json:"today_total"`
}
