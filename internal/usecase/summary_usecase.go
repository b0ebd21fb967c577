package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrInvalidDateRange = errors.New("end date must be after start date")

type SummaryUsecase interface {
	GetSummary(ctx context.Context, query dto.SummaryQuery) (*dto.SummaryResponse, error)
	// Export renders the same report as an .xlsx workbook.
	Export(ctx context.Context, query dto.SummaryQuery) ([]byte, error)
}

type summaryUsecase struct {
	transactor    database.Transactor
	log           *logrus.Logger
	visitRepo     repository.PatientVisitRepository
	refundRepo    repository.RefundRepository
	procedureRepo repository.ProcedureRepository
	billRepo      repository.BillRepository
	expenseRepo   repository.ExpenseRepository
	doctorRepo    repository.DoctorRepository
}

func NewSummaryUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	visitRepo repository.PatientVisitRepository,
	refundRepo repository.RefundRepository,
	procedureRepo repository.ProcedureRepository,
	billRepo repository.BillRepository,
	expenseRepo repository.ExpenseRepository,
	doctorRepo repository.DoctorRepository,
) SummaryUsecase {
	return &summaryUsecase{
		transactor:    transactor,
		log:           log,
		visitRepo:     visitRepo,
		refundRepo:    refundRepo,
		procedureRepo: procedureRepo,
		billRepo:      billRepo,
		expenseRepo:   expenseRepo,
		doctorRepo:    doctorRepo,
	}
}

// GetSummary reports OPD revenue per doctor net of settled refunds, split by
// contract percentages, alongside procedure and retail revenue and expenses.
// The doctor filter only narrows the per-doctor section.
func (u *summaryUsecase) GetSummary(ctx context.Context, query dto.SummaryQuery) (*dto.SummaryResponse, error) {
	if !query.To.After(query.From) {
		return nil, ErrInvalidDateRange
	}

	db := u.transactor.Conn(ctx)
	dr := entity.DateRange{From: query.From, To: query.To}

	doctors, err := u.doctorRows(db, dr, query.DoctorID)
	if err != nil {
		return nil, err
	}

	procedures, err := u.procedureRepo.SumPaid(db, dr)
	if err != nil {
		u.log.Warnf("Failed to sum procedure revenue: %+v", err)
		return nil, err
	}
	bills, err := u.billRepo.SumCommitted(db, dr)
	if err != nil {
		u.log.Warnf("Failed to sum bill revenue: %+v", err)
		return nil, err
	}
	expenses, err := u.expenseRepo.GrandTotals(db, &dr)
	if err != nil {
		u.log.Warnf("Failed to total expenses: %+v", err)
		return nil, err
	}

	totals := dto.SummaryTotalsResponse{
		OPDPaid:          decimal.Zero,
		OPDRefunds:       decimal.Zero,
		OPDNet:           decimal.Zero,
		HospitalShare:    decimal.Zero,
		DoctorShare:      decimal.Zero,
		ProcedureCount:   procedures.Count,
		ProcedureRevenue: procedures.Total,
		BillCount:        bills.Count,
		BillRevenue:      bills.Total,
		Expenses:         expenses.GrandTotal,
	}
	for _, d := range doctors {
		totals.OPDPaid = totals.OPDPaid.Add(d.TotalPaid)
		totals.OPDRefunds = totals.OPDRefunds.Add(d.TotalRefunds)
		totals.OPDNet = totals.OPDNet.Add(d.NetAmount)
		totals.HospitalShare = totals.HospitalShare.Add(d.HospitalShare)
		totals.DoctorShare = totals.DoctorShare.Add(d.DoctorShare)
	}
	totals.TotalRevenue = totals.OPDNet.Add(totals.ProcedureRevenue).Add(totals.BillRevenue)
	totals.NetIncome = totals.TotalRevenue.Sub(totals.Expenses)

	return &dto.SummaryResponse{
		From:    query.From,
		To:      query.To,
		Doctors: doctors,
		Totals:  totals,
	}, nil
}

func (u *summaryUsecase) doctorRows(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]dto.DoctorSummaryResponse, error) {
	revenues, err := u.visitRepo.SumPaidByDoctor(db, dr, doctorID)
	if err != nil {
		u.log.Warnf("Failed to sum visit revenue: %+v", err)
		return nil, err
	}
	refunds, err := u.refundRepo.SumSettledByDoctor(db, dr, doctorID)
	if err != nil {
		u.log.Warnf("Failed to sum refunds: %+v", err)
		return nil, err
	}

	refunded := make(map[uuid.UUID]decimal.Decimal, len(refunds))
	for _, r := range refunds {
		refunded[r.DoctorID] = r.TotalRefund
	}

	rows := make([]dto.DoctorSummaryResponse, 0, len(revenues)+len(refunds))
	seen := make(map[uuid.UUID]bool, len(revenues))
	for _, rev := range revenues {
		seen[rev.DoctorID] = true
		rows = append(rows, doctorRow(rev, refunded[rev.DoctorID]))
	}

	// Refunds settled in the range for visits that fell outside it.
	for _, r := range refunds {
		if seen[r.DoctorID] {
			continue
		}
		doctor, err := u.doctorRepo.FindByID(db, r.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor: %+v", err)
			return nil, err
		}
		rev := entity.DoctorRevenue{DoctorID: r.DoctorID, TotalPaid: decimal.Zero}
		if doctor != nil {
			rev.DoctorName = doctor.FullName
			rev.HospitalPercentage = doctor.HospitalPercentage
			rev.DoctorPercentage = doctor.DoctorPercentage
		}
		rows = append(rows, doctorRow(rev, r.TotalRefund))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].DoctorName < rows[j].DoctorName })
	return rows, nil
}

func doctorRow(rev entity.DoctorRevenue, refunds decimal.Decimal) dto.DoctorSummaryResponse {
	net := rev.TotalPaid.Sub(refunds)
	return dto.DoctorSummaryResponse{
		DoctorID:           rev.DoctorID,
		DoctorName:         rev.DoctorName,
		VisitCount:         rev.VisitCount,
		TotalPaid:          rev.TotalPaid,
		TotalRefunds:       refunds,
		NetAmount:          net,
		HospitalPercentage: rev.HospitalPercentage,
		DoctorPercentage:   rev.DoctorPercentage,
		HospitalShare:      net.Mul(rev.HospitalPercentage).Div(hundred).Round(2),
		DoctorShare:        net.Mul(rev.DoctorPercentage).Div(hundred).Round(2),
	}
}

const (
	sheetDoctors = "Doctors"
	sheetTotals  = "Totals"
)

var doctorHeaders = []string{
	"Doctor", "Visits", "Total Paid", "Refunds", "Net",
	"Hospital %", "Doctor %", "Hospital Share", "Doctor Share",
}

func (u *summaryUsecase) Export(ctx context.Context, query dto.SummaryQuery) ([]byte, error) {
	summary, err := u.GetSummary(ctx, query)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummaryWorkbook(f, summary); err != nil {
		u.log.Warnf("Failed to build summary workbook: %+v", err)
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		u.log.Warnf("Failed to write summary workbook: %+v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummaryWorkbook(f *excelize.File, summary *dto.SummaryResponse) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", sheetDoctors); err != nil {
		return err
	}
	for i, h := range doctorHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetDoctors, cell, h)
		f.SetCellStyle(sheetDoctors, cell, cell, headerStyle)
	}
	for r, d := range summary.Doctors {
		values := []interface{}{
			d.DoctorName,
			d.VisitCount,
			d.TotalPaid.InexactFloat64(),
			d.TotalRefunds.InexactFloat64(),
			d.NetAmount.InexactFloat64(),
			d.HospitalPercentage.InexactFloat64(),
			d.DoctorPercentage.InexactFloat64(),
			d.HospitalShare.InexactFloat64(),
			d.DoctorShare.InexactFloat64(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheetDoctors, cell, v)
		}
	}
	f.SetPanes(sheetDoctors, &excelize.Panes{Freeze: true, Split: true, YSplit: 1})

	if _, err := f.NewSheet(sheetTotals); err != nil {
		return err
	}
	t := summary.Totals
	rows := []struct {
		label string
		value interface{}
	}{
		{"From", summary.From.Format("2006-01-02")},
		// The range end is exclusive; show the last day it covers.
		{"To", summary.To.Add(-time.Nanosecond).Format("2006-01-02")},
		{"OPD Paid", t.OPDPaid.InexactFloat64()},
		{"OPD Refunds", t.OPDRefunds.InexactFloat64()},
		{"OPD Net", t.OPDNet.InexactFloat64()},
		{"Hospital Share", t.HospitalShare.InexactFloat64()},
		{"Doctor Share", t.DoctorShare.InexactFloat64()},
		{"Procedures", t.ProcedureCount},
		{"Procedure Revenue", t.ProcedureRevenue.InexactFloat64()},
		{"Bills", t.BillCount},
		{"Bill Revenue", t.BillRevenue.InexactFloat64()},
		{"Total Revenue", t.TotalRevenue.InexactFloat64()},
		{"Expenses", t.Expenses.InexactFloat64()},
		{"Net Income", t.NetIncome.InexactFloat64()},
	}
	for i, row := range rows {
		label, _ := excelize.CoordinatesToCellName(1, i+1)
		value, _ := excelize.CoordinatesToCellName(2, i+1)
		f.SetCellValue(sheetTotals, label, row.label)
		f.SetCellStyle(sheetTotals, label, label, headerStyle)
		f.SetCellValue(sheetTotals, value, row.value)
	}

	f.SetActiveSheet(0)
	return nil
}
