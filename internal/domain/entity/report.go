package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregation rows scanned straight from report queries.

type DoctorRevenue struct {
	DoctorID           uuid.UUID
	DoctorName         string
	HospitalPercentage decimal.Decimal
	DoctorPercentage   decimal.Decimal
	VisitCount         int64
	TotalPaid          decimal.Decimal
}

type DoctorRefund struct {
	DoctorID    uuid.UUID
	TotalRefund decimal.Decimal
}

type RevenueTotal struct {
	Count int64
	Total decimal.Decimal
}

type RefundStatusCount struct {
	Status RefundStatus
	Count  int64
	Total  decimal.Decimal
}
