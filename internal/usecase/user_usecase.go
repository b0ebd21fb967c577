package usecase

import (
	"context"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"
	"hospital-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	ListRoles(ctx context.Context) ([]dto.RoleResponse, error)
}

type userUsecase struct {
	transactor     database.Transactor
	log            *logrus.Logger
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	sessionService service.SessionService
	auditService   service.AuditService
}

func NewUserUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	sessionService service.SessionService,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		transactor:     transactor,
		log:            log,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		sessionService: sessionService,
		auditService:   auditService,
	}
}

func (u *userUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		Contact:  req.Contact,
		RoleID:   req.RoleID,
		IsActive: true,
	}

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		role, err := u.roleRepo.FindByID(tx, req.RoleID)
		if err != nil {
			u.log.Warnf("Failed to find role: %+v", err)
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}
		user.Role = *role

		if err := u.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isForeignKeyError(err, "role") {
				return ErrRoleNotFound
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("User %s created with role %s", user.ID, user.Role.RoleName)
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error) {
	users, total, err := u.userRepo.FindAll(u.transactor.Conn(ctx), limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, 0, err
	}
	return converter.UsersToResponses(users), total, nil
}

func (u *userUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Update(ctx context.Context, actorID, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var (
		updated    *entity.User
		deactivate bool
	)

	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user by ID: %+v", err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		before := converter.UserToResponse(user)

		role, err := u.roleRepo.FindByID(tx, req.RoleID)
		if err != nil {
			u.log.Warnf("Failed to find role: %+v", err)
			return err
		}
		if role == nil {
			return ErrRoleNotFound
		}

		user.FullName = req.FullName
		user.Contact = req.Contact
		user.RoleID = role.ID
		user.Role = *role
		if req.IsActive != nil {
			deactivate = user.IsActive && !*req.IsActive
			user.IsActive = *req.IsActive
		}
		if req.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				u.log.Warnf("Failed to hash password: %+v", err)
				return err
			}
			user.Password = string(hashed)
		}

		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user: %+v", err)
			return err
		}
		updated = user

		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionUserUpdate, "user", id.String(), before, converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	if deactivate || req.Password != "" {
		if err := u.sessionService.RevokeAll(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke sessions of user %s: %+v", id, err)
		}
	}

	return converter.UserToResponse(updated), nil
}

func (u *userUsecase) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user by ID: %+v", err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		if err := u.userRepo.SoftDelete(tx, id); err != nil {
			u.log.Warnf("Failed to delete user: %+v", err)
			return err
		}

		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionUserDelete, "user", id.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return err
	}

	if err := u.sessionService.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke sessions of user %s: %+v", id, err)
	}
	return nil
}

func (u *userUsecase) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := u.roleRepo.FindAll(u.transactor.Conn(ctx))
	if err != nil {
		u.log.Warnf("Failed to list roles: %+v", err)
		return nil, err
	}
	return converter.RolesToResponses(roles), nil
}
