package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
)

type refundFixture struct {
	*fixture
	u         *refundUsecase
	patientID uuid.UUID
	doctorID  uuid.UUID
	visitID   uuid.UUID
}

func newRefundFixture(t *testing.T) *refundFixture {
	f := newFixture(t)
	u := NewRefundUsecase(f.tx, f.log, time.UTC,
		testutil.RefundRepo{S: f.store},
		testutil.PatientRepo{S: f.store},
		testutil.VisitRepo{S: f.store},
		f.audit,
	).(*refundUsecase)
	u.now = fixedNow

	doctorID := f.addDoctor("Dr. Hina", f.addDepartment("General"), 1000)
	patientID := f.addPatient("MR-240310-0042", "Bilal")
	visitID := f.addVisit(patientID, doctorID, "1000", clinicDay.Add(-time.Hour))

	return &refundFixture{fixture: f, u: u, patientID: patientID, doctorID: doctorID, visitID: visitID}
}

func (f *refundFixture) request(amount string) *dto.CreateRefundRequest {
	return &dto.CreateRefundRequest{
		PatientMRNo:  "MR-240310-0042",
		VisitID:      f.visitID,
		RefundAmount: dec(amount),
		Reason:       "doctor unavailable",
	}
}

func TestRefundCreate_StartsPendingWithAudit(t *testing.T) {
	f := newRefundFixture(t)

	resp, err := f.u.Create(context.Background(), f.actorID, f.request("400"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Status != string(entity.RefundStatusPending) {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if resp.RefundMethod != "cash" {
		t.Errorf("method = %s, want cash", resp.RefundMethod)
	}
	if resp.PatientName != "Bilal" || resp.VisitToken != "GE-1" {
		t.Errorf("patient/visit = %s/%s", resp.PatientName, resp.VisitToken)
	}
	if got := f.auditActions(); len(got) != 1 || got[0] != entity.AuditActionRefundCreate {
		t.Errorf("audit = %v", got)
	}
}

func TestRefundCreate_CapsAtRemainingPaidAmount(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	if _, err := f.u.Create(ctx, f.actorID, f.request("700")); err != nil {
		t.Fatalf("first refund: %v", err)
	}

	_, err := f.u.Create(ctx, f.actorID, f.request("301"))
	if !errors.Is(err, ErrRefundExceedsPaid) {
		t.Fatalf("err = %v, want ErrRefundExceedsPaid", err)
	}
	if len(f.store.Refunds) != 1 || len(f.store.AuditLogs) != 1 {
		t.Errorf("refunds/audit = %d/%d, want 1/1", len(f.store.Refunds), len(f.store.AuditLogs))
	}

	if _, err := f.u.Create(ctx, f.actorID, f.request("300")); err != nil {
		t.Fatalf("exact remainder: %v", err)
	}
}

func TestRefundCreate_RejectedRefundsFreeTheAmount(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	first, err := f.u.Create(ctx, f.actorID, f.request("1000"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.u.UpdateStatus(ctx, f.actorID, first.ID, &dto.UpdateRefundStatusRequest{Status: "rejected"}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := f.u.Create(ctx, f.actorID, f.request("1000")); err != nil {
		t.Fatalf("refund after rejection: %v", err)
	}
}

func TestRefundCreate_Errors(t *testing.T) {
	f := newRefundFixture(t)
	otherPatient := f.addPatient("MR-240310-0099", "Other")
	otherVisit := f.addVisit(otherPatient, f.doctorID, "500", clinicDay)

	tests := []struct {
		name string
		req  *dto.CreateRefundRequest
		want error
	}{
		{"unknown patient", &dto.CreateRefundRequest{PatientMRNo: "MR-000000-XXXX", VisitID: f.visitID, RefundAmount: dec("10")}, ErrPatientNotFound},
		{"unknown visit", &dto.CreateRefundRequest{PatientMRNo: "MR-240310-0042", VisitID: uuid.New(), RefundAmount: dec("10")}, ErrVisitNotFound},
		{"visit of another patient", &dto.CreateRefundRequest{PatientMRNo: "MR-240310-0042", VisitID: otherVisit, RefundAmount: dec("10")}, ErrVisitNotFound},
		{"zero amount", &dto.CreateRefundRequest{PatientMRNo: "MR-240310-0042", VisitID: f.visitID, RefundAmount: dec("0")}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.u.Create(context.Background(), f.actorID, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRefundUpdateStatus_FollowsLifecycle(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	created, err := f.u.Create(ctx, f.actorID, f.request("250"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.u.UpdateStatus(ctx, f.actorID, created.ID, &dto.UpdateRefundStatusRequest{Status: "processed"}); !errors.Is(err, ErrInvalidRefundTransition) {
		t.Fatalf("pending -> processed: err = %v, want ErrInvalidRefundTransition", err)
	}

	approved, err := f.u.UpdateStatus(ctx, f.actorID, created.ID, &dto.UpdateRefundStatusRequest{Status: "approved", Remarks: "ok by admin"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Remarks != "ok by admin" || approved.ProcessedBy == nil || *approved.ProcessedBy != f.actorID {
		t.Errorf("approved = %+v", approved)
	}

	processed, err := f.u.UpdateStatus(ctx, f.actorID, created.ID, &dto.UpdateRefundStatusRequest{Status: "processed"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if processed.Status != "processed" || processed.Remarks != "ok by admin" {
		t.Errorf("processed = %s/%s", processed.Status, processed.Remarks)
	}

	if _, err := f.u.UpdateStatus(ctx, f.actorID, created.ID, &dto.UpdateRefundStatusRequest{Status: "rejected"}); !errors.Is(err, ErrInvalidRefundTransition) {
		t.Errorf("processed -> rejected: err = %v", err)
	}

	want := []string{entity.AuditActionRefundCreate, entity.AuditActionRefundStatus, entity.AuditActionRefundStatus}
	got := f.auditActions()
	if len(got) != len(want) {
		t.Fatalf("audit = %v, want %v", got, want)
	}
}

func TestRefundUpdateStatus_UnknownRefundAndStatus(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	if _, err := f.u.UpdateStatus(ctx, f.actorID, uuid.New(), &dto.UpdateRefundStatusRequest{Status: "approved"}); !errors.Is(err, ErrRefundNotFound) {
		t.Errorf("err = %v, want ErrRefundNotFound", err)
	}
	if _, err := f.u.UpdateStatus(ctx, f.actorID, uuid.New(), &dto.UpdateRefundStatusRequest{Status: "lost"}); !errors.Is(err, ErrInvalidRefundStatus) {
		t.Errorf("err = %v, want ErrInvalidRefundStatus", err)
	}
}

func TestRefundableVisits_SkipFullyRefundedAndUnpaid(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	unpaid := f.addVisit(f.patientID, f.doctorID, "0", clinicDay)
	refunded := f.addVisit(f.patientID, f.doctorID, "300", clinicDay)
	req := f.request("300")
	req.VisitID = refunded
	if _, err := f.u.Create(ctx, f.actorID, req); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.u.Create(ctx, f.actorID, f.request("200")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	visits, err := f.u.GetRefundableVisits(ctx, "MR-240310-0042")
	if err != nil {
		t.Fatalf("GetRefundableVisits: %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("visits = %d, want 1", len(visits))
	}
	v := visits[0]
	if v.Visit.ID != f.visitID || v.Visit.ID == unpaid {
		t.Errorf("visit = %s, want %s", v.Visit.ID, f.visitID)
	}
	if !v.RefundedAmount.Equal(dec("200")) || !v.RefundableAmount.Equal(dec("800")) {
		t.Errorf("refunded/refundable = %s/%s, want 200/800", v.RefundedAmount, v.RefundableAmount)
	}
}

func TestRefundLists(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	first, _ := f.u.Create(ctx, f.actorID, f.request("100"))
	if _, err := f.u.Create(ctx, f.actorID, f.request("150")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.u.UpdateStatus(ctx, f.actorID, first.ID, &dto.UpdateRefundStatusRequest{Status: "approved"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, total, err := f.u.GetAll(ctx, dto.RefundListQuery{Status: "pending", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 1 || len(pending) != 1 || !pending[0].RefundAmount.Equal(dec("150")) {
		t.Errorf("pending = %d/%d", len(pending), total)
	}

	if _, _, err := f.u.GetAll(ctx, dto.RefundListQuery{Status: "done", Page: 1, Limit: 10}); !errors.Is(err, ErrInvalidRefundStatus) {
		t.Errorf("err = %v, want ErrInvalidRefundStatus", err)
	}

	byPatient, err := f.u.GetByPatientMRNo(ctx, "MR-240310-0042")
	if err != nil || len(byPatient) != 2 {
		t.Errorf("by MR = %d, %v", len(byPatient), err)
	}
	if _, err := f.u.GetByPatientMRNo(ctx, "MR-000000-XXXX"); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}

	got, err := f.u.GetByID(ctx, first.ID)
	if err != nil || got.Status != "approved" {
		t.Errorf("GetByID = %+v, %v", got, err)
	}
}

func TestRefundStatistics(t *testing.T) {
	f := newRefundFixture(t)
	ctx := context.Background()

	if _, err := f.u.Create(ctx, f.actorID, f.request("100")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rejected, err := f.u.Create(ctx, f.actorID, f.request("200"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.u.UpdateStatus(ctx, f.actorID, rejected.ID, &dto.UpdateRefundStatusRequest{Status: "rejected"}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	old := uuid.New()
	f.store.Refunds[old] = entity.Refund{
		ID:           old,
		PatientID:    f.patientID,
		PatientMRNo:  "MR-240310-0042",
		VisitID:      f.visitID,
		RefundAmount: dec("50"),
		Status:       entity.RefundStatusPending,
		CreatedAt:    clinicDay.AddDate(0, 0, -3),
	}

	stats, err := f.u.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if stats.TodayCount != 1 || !stats.TodayTotal.Equal(dec("100")) {
		t.Errorf("today = %d/%s, want 1/100", stats.TodayCount, stats.TodayTotal)
	}

	byStatus := map[string]dto.RefundStatusStatistic{}
	for _, s := range stats.ByStatus {
		byStatus[s.Status] = s
	}
	if p := byStatus["pending"]; p.Count != 2 || !p.Total.Equal(dec("150")) {
		t.Errorf("pending = %+v", p)
	}
	if r := byStatus["rejected"]; r.Count != 1 || !r.Total.Equal(dec("200")) {
		t.Errorf("rejected = %+v", r)
	}
}
