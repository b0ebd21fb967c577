package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type summaryFixture struct {
	*fixture
	u       SummaryUsecase
	amna    uuid.UUID
	bashir  uuid.UUID
	dayFrom time.Time
	dayTo   time.Time
}

// newSummaryFixture seeds one clinic day:
//   - Dr. Amna: visits of 1000 and 500, an approved refund of 200 and a
//     pending one of 100 on the first
//   - Dr. Bashir: no visit that day, a processed refund of 300 on an older visit
//   - a paid procedure of 2000, a paid bill of 1500, a held bill, an expense of 400
func newSummaryFixture(t *testing.T) *summaryFixture {
	f := newFixture(t)
	dept := f.addDepartment("General")
	amna := f.addDoctor("Dr. Amna", dept, 1000)
	bashir := f.addDoctor("Dr. Bashir", dept, 800)
	patient := f.addPatient("MR-240310-0100", "Kiran")

	older := clinicDay.AddDate(0, 0, -5)
	first := f.addVisit(patient, amna, "1000", clinicDay)
	f.addVisit(patient, amna, "500", clinicDay.Add(2*time.Hour))
	f.addVisit(patient, amna, "700", older)
	bashirVisit := f.addVisit(patient, bashir, "800", older)

	addRefund := func(visitID uuid.UUID, amount string, status entity.RefundStatus) {
		id := uuid.New()
		f.store.Refunds[id] = entity.Refund{
			ID:           id,
			PatientID:    patient,
			PatientMRNo:  "MR-240310-0100",
			VisitID:      visitID,
			RefundAmount: dec(amount),
			Status:       status,
			CreatedAt:    clinicDay,
		}
	}
	addRefund(first, "200", entity.RefundStatusApproved)
	addRefund(first, "100", entity.RefundStatusPending)
	addRefund(bashirVisit, "300", entity.RefundStatusProcessed)

	procID := uuid.New()
	f.store.Procedures[procID] = entity.Procedure{ID: procID, ScheduledDate: clinicDay, AmountPaid: dec("2000")}

	for _, b := range []entity.Bill{
		{ID: uuid.New(), BillNo: "BL-1", Status: entity.BillStatusPaid, TotalAmount: dec("1500"), CreatedAt: clinicDay},
		{ID: uuid.New(), BillNo: "BL-2", Status: entity.BillStatusHold, TotalAmount: dec("999"), CreatedAt: clinicDay},
	} {
		f.store.Bills[b.ID] = b
	}

	expID := uuid.New()
	f.store.Expenses[expID] = entity.Expense{ID: expID, Doctor: "Dr. Amna", DoctorWelfare: dec("400"), Total: dec("400"), ExpenseDate: clinicDay}

	u := NewSummaryUsecase(f.tx, f.log,
		testutil.VisitRepo{S: f.store},
		testutil.RefundRepo{S: f.store},
		testutil.ProcedureRepo{S: f.store},
		testutil.BillRepo{S: f.store},
		testutil.ExpenseRepo{S: f.store},
		testutil.DoctorRepo{S: f.store},
	)

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return &summaryFixture{fixture: f, u: u, amna: amna, bashir: bashir, dayFrom: from, dayTo: from.AddDate(0, 0, 1)}
}

func TestSummary_DoctorSharesAndTotals(t *testing.T) {
	f := newSummaryFixture(t)

	summary, err := f.u.GetSummary(context.Background(), dto.SummaryQuery{From: f.dayFrom, To: f.dayTo})
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if len(summary.Doctors) != 2 {
		t.Fatalf("doctors = %d, want 2", len(summary.Doctors))
	}

	a := summary.Doctors[0]
	if a.DoctorID != f.amna || a.VisitCount != 2 {
		t.Errorf("amna = %+v", a)
	}
	if !a.TotalPaid.Equal(dec("1500")) || !a.TotalRefunds.Equal(dec("200")) || !a.NetAmount.Equal(dec("1300")) {
		t.Errorf("amna paid/refunds/net = %s/%s/%s", a.TotalPaid, a.TotalRefunds, a.NetAmount)
	}
	if !a.HospitalShare.Equal(dec("520")) || !a.DoctorShare.Equal(dec("780")) {
		t.Errorf("amna shares = %s/%s, want 520/780", a.HospitalShare, a.DoctorShare)
	}

	b := summary.Doctors[1]
	if b.DoctorID != f.bashir || b.DoctorName != "Dr. Bashir" || b.VisitCount != 0 {
		t.Errorf("bashir = %+v", b)
	}
	if !b.NetAmount.Equal(dec("-300")) || !b.DoctorShare.Equal(dec("-180")) {
		t.Errorf("bashir net/share = %s/%s", b.NetAmount, b.DoctorShare)
	}

	tot := summary.Totals
	checks := []struct {
		name string
		got  string
		want string
	}{
		{"opd paid", tot.OPDPaid.String(), "1500"},
		{"opd refunds", tot.OPDRefunds.String(), "500"},
		{"opd net", tot.OPDNet.String(), "1000"},
		{"hospital share", tot.HospitalShare.String(), "400"},
		{"procedure revenue", tot.ProcedureRevenue.String(), "2000"},
		{"bill revenue", tot.BillRevenue.String(), "1500"},
		{"total revenue", tot.TotalRevenue.String(), "4500"},
		{"expenses", tot.Expenses.String(), "400"},
		{"net income", tot.NetIncome.String(), "4100"},
	}
	for _, c := range checks {
		if !dec(c.got).Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if tot.BillCount != 1 || tot.ProcedureCount != 1 {
		t.Errorf("bill/procedure count = %d/%d, want 1/1", tot.BillCount, tot.ProcedureCount)
	}
}

func TestSummary_DoctorFilter(t *testing.T) {
	f := newSummaryFixture(t)

	summary, err := f.u.GetSummary(context.Background(), dto.SummaryQuery{From: f.dayFrom, To: f.dayTo, DoctorID: &f.amna})
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if len(summary.Doctors) != 1 || summary.Doctors[0].DoctorID != f.amna {
		t.Fatalf("doctors = %+v", summary.Doctors)
	}
	if !summary.Totals.OPDNet.Equal(dec("1300")) {
		t.Errorf("opd net = %s, want 1300", summary.Totals.OPDNet)
	}
	if !summary.Totals.BillRevenue.Equal(dec("1500")) {
		t.Errorf("bill revenue = %s, want 1500", summary.Totals.BillRevenue)
	}
}

func TestSummary_RejectsEmptyRange(t *testing.T) {
	f := newSummaryFixture(t)

	_, err := f.u.GetSummary(context.Background(), dto.SummaryQuery{From: f.dayTo, To: f.dayFrom})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestSummaryExport_Workbook(t *testing.T) {
	f := newSummaryFixture(t)

	data, err := f.u.Export(context.Background(), dto.SummaryQuery{From: f.dayFrom, To: f.dayTo})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer wb.Close()

	if got := wb.GetSheetList(); len(got) != 2 || got[0] != "Doctors" || got[1] != "Totals" {
		t.Fatalf("sheets = %v", got)
	}

	cells := []struct {
		sheet, cell, want string
	}{
		{"Doctors", "A1", "Doctor"},
		{"Doctors", "A2", "Dr. Amna"},
		{"Doctors", "E2", "1300"},
		{"Doctors", "A3", "Dr. Bashir"},
		{"Totals", "A1", "From"},
		{"Totals", "B1", "2024-03-10"},
		{"Totals", "A14", "Net Income"},
		{"Totals", "B14", "4100"},
	}
	for _, c := range cells {
		got, err := wb.GetCellValue(c.sheet, c.cell)
		if err != nil {
			t.Fatalf("GetCellValue %s!%s: %v", c.sheet, c.cell, err)
		}
		if got != c.want {
			t.Errorf("%s!%s = %q, want %q", c.sheet, c.cell, got, c.want)
		}
	}
}
