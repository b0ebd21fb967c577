package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
)

func newExpenseUsecase(f *fixture) *expenseUsecase {
	u := NewExpenseUsecase(f.tx, f.log, testutil.ExpenseRepo{S: f.store}).(*expenseUsecase)
	u.now = fixedNow
	return u
}

func expenseRequest(doctor, welfare, ot, other string, date time.Time) *dto.ExpenseRequest {
	return &dto.ExpenseRequest{
		Doctor:        doctor,
		DoctorWelfare: dec(welfare),
		OTExpenses:    dec(ot),
		OtherExpenses: dec(other),
		ExpenseDate:   &date,
	}
}

func TestExpenseCreate_ComputesTotalAndDefaultsDate(t *testing.T) {
	f := newFixture(t)
	u := newExpenseUsecase(f)

	resp, err := u.Create(context.Background(), &dto.ExpenseRequest{
		Doctor:        "Dr. Hina",
		DoctorWelfare: dec("1000"),
		OTExpenses:    dec("250.50"),
		OtherExpenses: dec("49.50"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.Total.Equal(dec("1300")) {
		t.Errorf("total = %s, want 1300", resp.Total)
	}
	if !resp.ExpenseDate.Equal(clinicDay) {
		t.Errorf("date = %s, want %s", resp.ExpenseDate, clinicDay)
	}
}

func TestExpenseCreate_RejectsNegativeAmounts(t *testing.T) {
	f := newFixture(t)
	u := newExpenseUsecase(f)

	_, err := u.Create(context.Background(), expenseRequest("Dr. Hina", "-1", "0", "0", clinicDay))
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if len(f.store.Expenses) != 0 {
		t.Errorf("expenses = %d, want 0", len(f.store.Expenses))
	}
}

func TestExpenseUpdate_RecomputesTotal(t *testing.T) {
	f := newFixture(t)
	u := newExpenseUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, expenseRequest("Dr. Hina", "100", "100", "100", clinicDay))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := u.Update(ctx, created.ID, expenseRequest("Dr. Hina", "100", "400", "0", clinicDay))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Total.Equal(dec("500")) {
		t.Errorf("total = %s, want 500", updated.Total)
	}

	if _, err := u.Update(ctx, uuid.New(), expenseRequest("x", "0", "0", "0", clinicDay)); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("err = %v, want ErrExpenseNotFound", err)
	}
}

func TestExpenseDelete_HidesFromListsAndSummaries(t *testing.T) {
	f := newFixture(t)
	u := newExpenseUsecase(f)
	ctx := context.Background()

	kept, _ := u.Create(ctx, expenseRequest("Dr. Hina", "100", "0", "0", clinicDay))
	gone, _ := u.Create(ctx, expenseRequest("Dr. Omar", "900", "0", "0", clinicDay))

	if err := u.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := u.GetByID(ctx, gone.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("err = %v, want ErrExpenseNotFound", err)
	}
	if err := u.Delete(ctx, gone.ID); !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("second delete: err = %v", err)
	}

	list, total, err := u.GetAll(ctx, dto.ExpenseListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 1 || list[0].ID != kept.ID {
		t.Errorf("list = %d items, total %d", len(list), total)
	}

	totals, err := u.Totals(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !totals.GrandTotal.Equal(dec("100")) || totals.TotalEntries != 1 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestExpenseSummaries(t *testing.T) {
	f := newFixture(t)
	u := newExpenseUsecase(f)
	ctx := context.Background()

	earlier := clinicDay.AddDate(0, 0, -10)
	for _, req := range []*dto.ExpenseRequest{
		expenseRequest("Dr. Hina", "100", "50", "0", clinicDay),
		expenseRequest("Dr. Hina", "200", "0", "25", clinicDay),
		expenseRequest("Dr. Omar", "1000", "0", "0", clinicDay),
		expenseRequest("Dr. Omar", "5000", "0", "0", earlier),
	} {
		if _, err := u.Create(ctx, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	from := clinicDay.AddDate(0, 0, -1)
	summary, err := u.CompleteSummary(ctx, &from, nil)
	if err != nil {
		t.Fatalf("CompleteSummary: %v", err)
	}

	if len(summary.Doctors) != 2 {
		t.Fatalf("doctors = %d, want 2", len(summary.Doctors))
	}
	if d := summary.Doctors[0]; d.Doctor != "Dr. Omar" || !d.TotalAmount.Equal(dec("1000")) || d.Count != 1 {
		t.Errorf("first row = %+v", d)
	}
	if d := summary.Doctors[1]; d.Doctor != "Dr. Hina" || !d.TotalAmount.Equal(dec("375")) || d.Count != 2 {
		t.Errorf("second row = %+v", d)
	}

	totals := summary.Totals
	if !totals.GrandTotal.Equal(dec("1375")) || totals.TotalEntries != 3 || totals.TotalDoctors != 2 {
		t.Errorf("totals = %+v", totals)
	}

	all, err := u.Totals(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if !all.GrandTotal.Equal(dec("6375")) {
		t.Errorf("all-time total = %s, want 6375", all.GrandTotal)
	}
}
