package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
)

func newProcedureUsecase(f *fixture) *procedureUsecase {
	u := NewProcedureUsecase(f.tx, f.log,
		testutil.ProcedureRepo{S: f.store},
		testutil.PatientRepo{S: f.store},
		testutil.VisitRepo{S: f.store},
		testutil.DoctorRepo{S: f.store},
		f.tokens,
		f.audit,
	).(*procedureUsecase)
	u.now = fixedNow
	u.generateMRNo = sequence("MR-240310-EX01", "MR-240310-EX02")
	return u
}

func procedureRequest(departmentID uuid.UUID, mrNo string) *dto.CreateProcedureRequest {
	scheduled := clinicDay
	return &dto.CreateProcedureRequest{
		PatientMRNo:   mrNo,
		ProcedureName: "Scaling",
		DepartmentID:  departmentID,
		Category:      "dental",
		ScheduledDate: &scheduled,
		Price:         dec("2000"),
	}
}

func TestProcedureCreate_ExistingPatient(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental Surgery")
	patientID := f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)

	resp, err := u.Create(context.Background(), f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Token != "D-1" || resp.TokenNumber != 1 || resp.DepartmentPrefix != "D" {
		t.Errorf("token = %s/%d/%s, want D-1/1/D", resp.Token, resp.TokenNumber, resp.DepartmentPrefix)
	}
	if resp.IsExternal || resp.PatientName != "Ali" || resp.DepartmentName != "Dental Surgery" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.BillingStatus != string(entity.BillingStatusPending) || resp.Status != string(entity.ProcedureStatusScheduled) {
		t.Errorf("statuses = %s/%s", resp.BillingStatus, resp.Status)
	}

	if len(f.store.Visits) != 1 {
		t.Fatalf("visits = %d, want 1", len(f.store.Visits))
	}
	for _, v := range f.store.Visits {
		if v.Kind != entity.VisitKindProcedure || v.Token != "D-1" || v.Purpose != "Procedure: Scaling" {
			t.Errorf("visit = %+v", v)
		}
		if v.ProcedureID == nil || *v.ProcedureID != resp.ID {
			t.Errorf("visit procedure id = %v, want %s", v.ProcedureID, resp.ID)
		}
	}
	if got := f.store.Patients[patientID].TotalVisits; got != 1 {
		t.Errorf("total visits = %d, want 1", got)
	}
	if actions := f.auditActions(); len(actions) != 1 || actions[0] != entity.AuditActionProcedureCreate {
		t.Errorf("audit = %v", actions)
	}
}

func TestProcedureCreate_ExternalPatient(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Eye Clinic")
	u := newProcedureUsecase(f)

	req := procedureRequest(departmentID, "")
	req.ExternalPatientDetails = &dto.ExternalPatientRequest{Name: "Walk In", ContactNo: "0311-0000000", Age: 40}

	resp, err := u.Create(context.Background(), f.actorID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.IsExternal || resp.PatientMRNo != "MR-240310-EX01" || resp.Token != "E-1" {
		t.Errorf("response = %+v", resp)
	}
	if resp.ExternalPatientDetails == nil || resp.ExternalPatientDetails.Name != "Walk In" {
		t.Errorf("external details = %+v", resp.ExternalPatientDetails)
	}

	if len(f.store.Patients) != 1 {
		t.Fatalf("patients = %d, want 1", len(f.store.Patients))
	}
	for _, p := range f.store.Patients {
		if !p.IsExternal || p.MRNo != "MR-240310-EX01" || p.TotalVisits != 1 {
			t.Errorf("patient = %+v", p)
		}
	}
}

func TestProcedureCreate_UnknownMRNeedsExternalDetails(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	u := newProcedureUsecase(f)

	_, err := u.Create(context.Background(), f.actorID, procedureRequest(departmentID, "MR-000000-0000"))
	if !errors.Is(err, ErrExternalDetailsRequired) {
		t.Fatalf("err = %v, want ErrExternalDetailsRequired", err)
	}
	if len(f.store.Procedures) != 0 || len(f.store.Patients) != 0 {
		t.Errorf("store was written")
	}
}

func TestProcedureCreate_UnknownDepartment(t *testing.T) {
	f := newFixture(t)
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)

	_, err := u.Create(context.Background(), f.actorID, procedureRequest(uuid.New(), "MR-240310-0001"))
	if !errors.Is(err, service.ErrDepartmentNotFound) {
		t.Fatalf("err = %v, want ErrDepartmentNotFound", err)
	}
	if len(f.store.Visits) != 0 {
		t.Errorf("visits = %d, want 0", len(f.store.Visits))
	}
}

func TestProcedureCreate_SequentialTokens(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Skin Care")
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)

	for i := 1; i <= 4; i++ {
		resp, err := u.Create(context.Background(), f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if resp.TokenNumber != i || resp.Token != service.FormatToken("S", i) {
			t.Errorf("create %d token = %s", i, resp.Token)
		}
	}
}

func TestProcedureCreate_ConcurrentTokensAreDistinct(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)

	const n = 12
	var wg sync.WaitGroup
	numbers := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := u.Create(context.Background(), f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
			if err != nil {
				t.Errorf("Create: %v", err)
				return
			}
			numbers <- resp.TokenNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for n := range numbers {
		if seen[n] {
			t.Errorf("token number %d assigned twice", n)
		}
		seen[n] = true
	}
	if len(seen) != n {
		t.Errorf("distinct tokens = %d, want %d", len(seen), n)
	}
}

func TestProcedureCreate_RetriesWhenCounterIsBehind(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	holderID := f.addPatient("MR-240310-0001", "Ali")

	existingID := uuid.New()
	f.store.Procedures[existingID] = entity.Procedure{
		ID:           existingID,
		PatientID:    holderID,
		DepartmentID: departmentID,
		TokenDate:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		TokenNumber:  1,
		Token:        "D-1",
	}
	f.mr.Set("token:dept:"+departmentID.String()+":2024-03-10", "0")

	u := newProcedureUsecase(f)
	req := procedureRequest(departmentID, "")
	req.ExternalPatientDetails = &dto.ExternalPatientRequest{Name: "Walk In", ContactNo: "0311-0000000"}

	resp, err := u.Create(context.Background(), f.actorID, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Token != "D-2" {
		t.Errorf("token = %s, want D-2", resp.Token)
	}
	if f.tx.Rolls != 1 {
		t.Errorf("rolls = %d, want 1", f.tx.Rolls)
	}
	// The rolled back attempt must not leave a second walk-in patient behind.
	if len(f.store.Patients) != 2 {
		t.Errorf("patients = %d, want 2", len(f.store.Patients))
	}
	if len(f.store.AuditLogs) != 1 {
		t.Errorf("audit logs = %d, want 1", len(f.store.AuditLogs))
	}
}

func TestProcedureUpdate_Payments(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	doctorID := f.addDoctor("Dr. Hina", departmentID, 0)
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp, err := u.Update(ctx, f.actorID, created.ID, &dto.UpdateProcedureRequest{AmountPaid: decPtr("1000"), DoctorID: &doctorID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.BillingStatus != string(entity.BillingStatusPartial) || resp.PaymentDate == nil {
		t.Errorf("billing = %s, payment date = %v", resp.BillingStatus, resp.PaymentDate)
	}
	if resp.DoctorName != "Dr. Hina" || resp.DoctorDepartment != "Dental" {
		t.Errorf("doctor = %s/%s", resp.DoctorName, resp.DoctorDepartment)
	}

	resp, err = u.Update(ctx, f.actorID, created.ID, &dto.UpdateProcedureRequest{AmountPaid: decPtr("2000"), Status: strPtr("completed")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.BillingStatus != string(entity.BillingStatusPaid) || resp.Status != "completed" {
		t.Errorf("billing/status = %s/%s", resp.BillingStatus, resp.Status)
	}

	resp, err = u.Update(ctx, f.actorID, created.ID, &dto.UpdateProcedureRequest{Price: decPtr("3000")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.BillingStatus != string(entity.BillingStatusPartial) {
		t.Errorf("billing after price raise = %s, want partial", resp.BillingStatus)
	}
	if resp.Token != "D-1" {
		t.Errorf("token changed to %s", resp.Token)
	}
}

func TestProcedureUpdate_Rejects(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := u.Update(ctx, f.actorID, created.ID, &dto.UpdateProcedureRequest{Status: strPtr("done")}); !errors.Is(err, ErrInvalidProcedureStatus) {
		t.Errorf("bad status err = %v", err)
	}
	if _, err := u.Update(ctx, f.actorID, created.ID, &dto.UpdateProcedureRequest{AmountPaid: decPtr("-5")}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount err = %v", err)
	}
	if _, err := u.Update(ctx, f.actorID, uuid.New(), &dto.UpdateProcedureRequest{}); !errors.Is(err, ErrProcedureNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
}

func TestProcedureDelete_HidesFromLists(t *testing.T) {
	f := newFixture(t)
	departmentID := f.addDepartment("Dental")
	f.addPatient("MR-240310-0001", "Ali")
	u := newProcedureUsecase(f)
	ctx := context.Background()

	first, err := u.Create(ctx, f.actorID, procedureRequest(departmentID, "MR-240310-0001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Create(ctx, f.actorID, procedureRequest(departmentID, "MR-240310-0001")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := u.Delete(ctx, f.actorID, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !f.store.Procedures[first.ID].Deleted {
		t.Errorf("procedure not flagged deleted")
	}

	list, total, err := u.GetAll(ctx, dto.ProcedureListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID == first.ID {
		t.Errorf("list after delete = %d/%+v", total, list)
	}

	byMR, err := u.GetByPatientMRNo(ctx, "MR-240310-0001")
	if err != nil {
		t.Fatalf("GetByPatientMRNo: %v", err)
	}
	if len(byMR) != 1 {
		t.Errorf("by MR = %d, want 1", len(byMR))
	}

	if err := u.Delete(ctx, f.actorID, first.ID); !errors.Is(err, ErrProcedureNotFound) {
		t.Errorf("second delete err = %v", err)
	}
	want := []string{entity.AuditActionProcedureCreate, entity.AuditActionProcedureCreate, entity.AuditActionProcedureDelete}
	if got := f.auditActions(); len(got) != len(want) || got[2] != want[2] {
		t.Errorf("audit = %v", got)
	}
}
