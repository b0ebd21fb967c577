package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SummaryQuery struct {
	From     time.Time
	To       time.Time
	DoctorID *uuid.UUID
}

type DoctorSummaryResponse struct {
	DoctorID           uuid.UUID       `json:"doctor_id"`
	DoctorName         string          `json:"doctor_name"`
	VisitCount         int64           `json:"visit_count"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalRefunds       decimal.Decimal `json:"total_refunds"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	HospitalPercentage decimal.Decimal `json:"hospital_percentage"`
	DoctorPercentage   decimal.Decimal `json:"doctor_percentage"`
	HospitalShare      decimal.Decimal `json:"hospital_share"`
	DoctorShare        decimal.Decimal `json:"doctor_share"`
}

type SummaryTotalsResponse struct {
	OPDPaid          decimal.Decimal `json:"opd_paid"`
	OPDRefunds       decimal.Decimal `json:"opd_refunds"`
	OPDNet           decimal.Decimal `json:"opd_net"`
	HospitalShare    decimal.Decimal `json:"hospital_share"`
	DoctorShare      decimal.Decimal `json:"doctor_share"`
	ProcedureCount   int64           `json:"procedure_count"`
	ProcedureRevenue decimal.Decimal `json:"procedure_revenue"`
	BillCount        int64           `json:"bill_count"`
	BillRevenue      decimal.Decimal `json:"bill_revenue"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	Expenses         decimal.Decimal `json:"expenses"`
	NetIncome        decimal.Decimal `json:"net_income"`
}

type SummaryResponse struct {
	From    time.Time               `json:"from"`
	To      time.Time               `json:"to"`
	Doctors []DoctorSummaryResponse `json:"doctors"`
	Totals  SummaryTotalsResponse   `json:"totals"`
}
