package usecase

import (
	"context"
	"errors"
	"testing"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
)

func TestDepartment_UniqueNameAndInUse(t *testing.T) {
	f := newFixture(t)
	u := NewDepartmentUsecase(f.tx, f.log, testutil.DepartmentRepo{S: f.store})
	ctx := context.Background()

	dental, err := u.Create(ctx, &dto.DepartmentRequest{Name: "Dental"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Create(ctx, &dto.DepartmentRequest{Name: "Dental"}); !errors.Is(err, ErrDepartmentAlreadyExists) {
		t.Errorf("duplicate create: err = %v", err)
	}

	eye, _ := u.Create(ctx, &dto.DepartmentRequest{Name: "Eye"})
	if _, err := u.Update(ctx, eye.ID, &dto.DepartmentRequest{Name: "Dental"}); !errors.Is(err, ErrDepartmentAlreadyExists) {
		t.Errorf("duplicate rename: err = %v", err)
	}

	f.addDoctor("Dr. Saad", dental.ID, 1000)
	if err := u.Delete(ctx, dental.ID); !errors.Is(err, ErrDepartmentInUse) {
		t.Errorf("delete in use: err = %v", err)
	}
	if err := u.Delete(ctx, eye.ID); err != nil {
		t.Errorf("delete: %v", err)
	}
	if _, err := u.GetByID(ctx, eye.ID); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("err = %v, want ErrDepartmentNotFound", err)
	}

	all, err := u.GetAll(ctx)
	if err != nil || len(all) != 1 || all[0].Name != "Dental" {
		t.Errorf("departments = %+v, %v", all, err)
	}
}

func TestDoctor_ContractSplitAndDepartment(t *testing.T) {
	f := newFixture(t)
	u := NewDoctorUsecase(f.tx, f.log, testutil.DoctorRepo{S: f.store}, testutil.DepartmentRepo{S: f.store})
	ctx := context.Background()
	dept := f.addDepartment("Skin")

	req := &dto.DoctorRequest{
		FullName:           "Dr. Nida",
		DepartmentID:       dept,
		ConsultationFee:    dec("2000"),
		HospitalPercentage: dec("30"),
		DoctorPercentage:   dec("60"),
	}
	if _, err := u.Create(ctx, req); !errors.Is(err, ErrInvalidPercentages) {
		t.Errorf("split of 90: err = %v", err)
	}

	req.DoctorPercentage = dec("70")
	req.DepartmentID = uuid.New()
	if _, err := u.Create(ctx, req); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("unknown department: err = %v", err)
	}

	req.DepartmentID = dept
	doctor, err := u.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doctor.DepartmentName != "Skin" {
		t.Errorf("department = %q, want Skin", doctor.DepartmentName)
	}

	req.ConsultationFee = dec("2500")
	updated, err := u.Update(ctx, doctor.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.ConsultationFee.Equal(dec("2500")) {
		t.Errorf("fee = %s, want 2500", updated.ConsultationFee)
	}

	if err := u.Delete(ctx, doctor.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := u.GetAll(ctx, &dept)
	if err != nil || len(list) != 0 {
		t.Errorf("doctors after delete = %d, %v", len(list), err)
	}
}

func TestStaff_OptionalDepartment(t *testing.T) {
	f := newFixture(t)
	u := NewStaffUsecase(f.tx, f.log, testutil.StaffRepo{S: f.store}, testutil.DepartmentRepo{S: f.store})
	ctx := context.Background()
	dept := f.addDepartment("Radiology")

	plain, err := u.Create(ctx, &dto.StaffRequest{FullName: "Asma", Designation: "Cashier"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plain.DepartmentID != nil {
		t.Errorf("department = %v, want none", plain.DepartmentID)
	}

	tech, err := u.Create(ctx, &dto.StaffRequest{FullName: "Umar", Designation: "Technician", DepartmentID: &dept})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tech.DepartmentName != "Radiology" {
		t.Errorf("department = %q, want Radiology", tech.DepartmentName)
	}

	missing := uuid.New()
	if _, err := u.Update(ctx, tech.ID, &dto.StaffRequest{FullName: "Umar", Designation: "Technician", DepartmentID: &missing}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("err = %v, want ErrDepartmentNotFound", err)
	}

	if err := u.Delete(ctx, plain.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	staff, total, err := u.GetAll(ctx, 1, 10)
	if err != nil || total != 1 || staff[0].ID != tech.ID {
		t.Errorf("staff = %d/%d, %v", len(staff), total, err)
	}
	if _, err := u.GetByID(ctx, plain.ID); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("err = %v, want ErrStaffNotFound", err)
	}
}
