package handler

import (
	"errors"
	"net/http"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/pagination"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"

	"github.com/gorilla/mux"
)

type ProcedureHandler struct {
	procedureUsecase usecase.ProcedureUsecase
	validator        *validator.CustomValidator
}

func NewProcedureHandler(procedureUsecase usecase.ProcedureUsecase, validator *validator.CustomValidator) *ProcedureHandler {
	return &ProcedureHandler{
		procedureUsecase: procedureUsecase,
		validator:        validator,
	}
}

func (h *ProcedureHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrProcedureNotFound):
		response.NotFound(w, "Procedure not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrDepartmentNotFound):
		response.NotFound(w, "Department not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrInvalidProcedureStatus),
		errors.Is(err, usecase.ErrExternalDetailsRequired),
		errors.Is(err, usecase.ErrInvalidAmount):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrTokenConflict), errors.Is(err, usecase.ErrMRNoCollision):
		response.Conflict(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

// Create books a procedure, registering the patient first when only
// external details are given, and assigns the department token
// @Summary Create procedure
// @Tags Procedures
// @Security BearerAuth
// @Param request body dto.CreateProcedureRequest true "Procedure"
// @Success 201 {object} response.Response
// @Router /procedure/procedures [post]
func (h *ProcedureHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateProcedureRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	procedure, err := h.procedureUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create procedure")
		return
	}

	response.Success(w, http.StatusCreated, "Procedure created successfully", procedure)
}

// GetAll lists procedures
// @Summary List procedures
// @Tags Procedures
// @Param patient_MRNo query string false "MR number"
// @Param department query string false "Department ID"
// @Param status query string false "Status"
// @Param category query string false "Category"
// @Router /procedure/procedures [get]
func (h *ProcedureHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := queryUUID(w, r, "department")
	if !ok {
		return
	}

	q := r.URL.Query()
	p := pagination.FromRequest(r)
	query := dto.ProcedureListQuery{
		PatientMRNo:  q.Get("patient_MRNo"),
		DepartmentID: departmentID,
		Status:       q.Get("status"),
		Category:     q.Get("category"),
		Page:         p.Page,
		Limit:        p.Limit,
	}

	procedures, total, err := h.procedureUsecase.GetAll(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get procedures")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Procedures retrieved successfully", procedures, response.NewMeta(p.Page, p.Limit, total))
}

func (h *ProcedureHandler) GetByPatient(w http.ResponseWriter, r *http.Request) {
	procedures, err := h.procedureUsecase.GetByPatientMRNo(r.Context(), mux.Vars(r)["patient_MRNo"])
	if err != nil {
		h.writeError(w, err, "Failed to get procedures")
		return
	}

	response.Success(w, http.StatusOK, "Procedures retrieved successfully", procedures)
}

func (h *ProcedureHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "procedureId", "procedure")
	if !ok {
		return
	}

	var req dto.UpdateProcedureRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	procedure, err := h.procedureUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update procedure")
		return
	}

	response.Success(w, http.StatusOK, "Procedure updated successfully", procedure)
}

func (h *ProcedureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "procedureId", "procedure")
	if !ok {
		return
	}

	if err := h.procedureUsecase.Delete(r.Context(), actorID, id); err != nil {
		h.writeError(w, err, "Failed to delete procedure")
		return
	}

	response.Success(w, http.StatusOK, "Procedure deleted successfully", nil)
}
