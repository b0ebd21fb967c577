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

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

func (h *StaffHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrStaffNotFound):
		response.NotFound(w, "Staff member not found")
	case errors.Is(err, usecase.ErrDepartmentNotFound):
		response.NotFound(w, "Department not found")
	default:
		serverError(w, fallback, err)
	}
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.StaffRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	staff, err := h.staffUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create staff member")
		return
	}

	response.Success(w, http.StatusCreated, "Staff member created successfully", staff)
}

func (h *StaffHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	p := pagination.FromRequest(r)

	staff, total, err := h.staffUsecase.GetAll(r.Context(), p.Page, p.Limit)
	if err != nil {
		h.writeError(w, err, "Failed to get staff")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Staff retrieved successfully", staff, response.NewMeta(p.Page, p.Limit, total))
}

func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.staffUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member retrieved successfully", staff)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "staff")
	if !ok {
		return
	}

	var req dto.StaffRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	staff, err := h.staffUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member updated successfully", staff)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "staff")
	if !ok {
		return
	}

	if err := h.staffUsecase.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "Failed to delete staff member")
		return
	}

	response.Success(w, http.StatusOK, "Staff member deleted successfully", nil)
}
