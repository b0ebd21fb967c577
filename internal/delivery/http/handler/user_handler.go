package handler

import (
	"errors"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/pagination"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, "Email already exists")
	case errors.Is(err, usecase.ErrRoleNotFound):
		response.BadRequest(w, "Role not found")
	default:
		serverError(w, fallback, err)
	}
}

// Create opens a dashboard account. Served at /auth/register and /users.
// @Summary Register a user (admin)
// @Tags Users
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Router /auth/register [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create user")
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	users, total, err := h.userUsecase.GetAll(r.Context(), p.Page, p.Limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Users retrieved successfully", users, response.NewMeta(p.Page, p.Limit, total))
}

func (h *UserHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.userUsecase.ListRoles(r.Context())
	if err != nil {
		serverError(w, "Failed to get roles", err)
		return
	}

	response.Success(w, http.StatusOK, "Roles retrieved successfully", roles)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.userUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	user, err := h.userUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "user")
	if !ok {
		return
	}
	if id == actorID {
		response.BadRequest(w, "You cannot delete your own account")
		return
	}

	if err := h.userUsecase.Delete(r.Context(), actorID, id); err != nil {
		h.writeError(w, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
