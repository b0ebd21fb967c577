package usecase

import (
	"context"
	"errors"
	"testing"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func TestUserCreate_DuplicateEmailAndUnknownRole(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.createUser(t, "desk@hospital.test", entity.RoleIDReceptionist)

	_, err := f.users.Create(ctx, f.actorID, &dto.CreateUserRequest{
		Email: "DESK@hospital.test", Password: "secret123", FullName: "Copy", RoleID: entity.RoleIDReceptionist,
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}

	_, err = f.users.Create(ctx, f.actorID, &dto.CreateUserRequest{
		Email: "ghost@hospital.test", Password: "secret123", FullName: "Ghost", RoleID: 42,
	})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("err = %v, want ErrRoleNotFound", err)
	}

	if len(f.store.Users) != 1 || len(f.store.AuditLogs) != 1 {
		t.Errorf("users/audit = %d/%d, want 1/1", len(f.store.Users), len(f.store.AuditLogs))
	}
}

func TestUserUpdate_PasswordChangeSignsOut(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "rad@hospital.test", entity.RoleIDRadiology)

	tokens, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "rad@hospital.test", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, _ := f.jwt.ValidateToken(tokens.AccessToken)

	updated, err := f.users.Update(ctx, f.actorID, user.ID, &dto.UpdateUserRequest{
		FullName: "Radiology Desk",
		RoleID:   entity.RoleIDLab,
		Password: "newsecret",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FullName != "Radiology Desk" || updated.Role != entity.RoleLab || !updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}

	active, _ := f.sessions.IsAccessTokenActive(ctx, user.ID, claims.TokenID)
	if active {
		t.Error("session still active after password change")
	}
	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "rad@hospital.test", Password: "newsecret"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestUserDelete_HidesUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	keep := f.createUser(t, "a@hospital.test", entity.RoleIDNurse)
	gone := f.createUser(t, "b@hospital.test", entity.RoleIDNurse)

	if err := f.users.Delete(ctx, f.actorID, gone.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.users.Delete(ctx, f.actorID, gone.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete: err = %v", err)
	}

	users, total, err := f.users.GetAll(ctx, 1, 10)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 1 || users[0].ID != keep.ID {
		t.Errorf("users = %d, total %d", len(users), total)
	}

	want := []string{entity.AuditActionUserCreate, entity.AuditActionUserCreate, entity.AuditActionUserDelete}
	got := f.auditActions()
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("audit = %v, want %v", got, want)
		}
	}
}

func TestUserListRoles(t *testing.T) {
	f := newAuthFixture(t)

	roles, err := f.users.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	if len(roles) != 7 {
		t.Fatalf("roles = %d, want 7", len(roles))
	}
	if roles[0].ID != entity.RoleIDAdmin || roles[0].Name != entity.RoleAdmin {
		t.Errorf("first role = %+v", roles[0])
	}
	if roles[6].ID != entity.RoleIDPatient {
		t.Errorf("last role = %+v", roles[6])
	}
}
