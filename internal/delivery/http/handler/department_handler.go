package handler

import (
	"errors"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"
)

type DepartmentHandler struct {
	departmentUsecase usecase.DepartmentUsecase
	validator         *validator.CustomValidator
}

func NewDepartmentHandler(departmentUsecase usecase.DepartmentUsecase, validator *validator.CustomValidator) *DepartmentHandler {
	return &DepartmentHandler{
		departmentUsecase: departmentUsecase,
		validator:         validator,
	}
}

func (h *DepartmentHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrDepartmentNotFound):
		response.NotFound(w, "Department not found")
	case errors.Is(err, usecase.ErrDepartmentAlreadyExists):
		response.Conflict(w, "Department name already exists")
	case errors.Is(err, usecase.ErrDepartmentInUse):
		response.Conflict(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DepartmentRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}

func (h *DepartmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentUsecase.GetAll(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	department, err := h.departmentUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get department")
		return
	}

	response.Success(w, http.StatusOK, "Department retrieved successfully", department)
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	var req dto.DepartmentRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update department")
		return
	}

	response.Success(w, http.StatusOK, "Department updated successfully", department)
}

// Delete refuses while doctors, staff or procedures still point at the department.
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "department")
	if !ok {
		return
	}

	if err := h.departmentUsecase.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "Failed to delete department")
		return
	}

	response.Success(w, http.StatusOK, "Department deleted successfully", nil)
}
