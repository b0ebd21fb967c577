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

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrInvalidAmount):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrMRNoCollision), errors.Is(err, usecase.ErrTokenConflict):
		response.Conflict(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

// Create registers a patient and assigns an MR number
// @Summary Register patient
// @Tags Patients
// @Security BearerAuth
// @Param request body dto.PatientRequest true "Patient"
// @Router /patient [post]
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

// GetAll lists patients, optionally filtered by ?search= on MR number, name
// or contact number.
func (h *PatientHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("search"))
}

// Search is GetAll keyed on ?q= (or ?term=).
func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		term = r.URL.Query().Get("term")
	}
	if term == "" {
		response.BadRequest(w, "Search term is required")
		return
	}
	h.list(w, r, term)
}

func (h *PatientHandler) list(w http.ResponseWriter, r *http.Request, search string) {
	p := pagination.FromRequest(r)

	patients, total, err := h.patientUsecase.GetAll(r.Context(), search, p.Page, p.Limit)
	if err != nil {
		serverError(w, "Failed to get patients", err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patients retrieved successfully", patients, response.NewMeta(p.Page, p.Limit, total))
}

func (h *PatientHandler) GetByMRNo(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.GetByMRNo(r.Context(), mux.Vars(r)["mrNo"])
	if err != nil {
		h.writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.Update(r.Context(), mux.Vars(r)["mrNo"], &req)
	if err != nil {
		h.writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.patientUsecase.Delete(r.Context(), mux.Vars(r)["mrNo"]); err != nil {
		h.writeError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

// AddVisit books an OPD visit and assigns the doctor's next token
// @Summary Add OPD visit
// @Tags Patients
// @Security BearerAuth
// @Param mrNo path string true "MR number"
// @Param request body dto.CreateVisitRequest true "Visit"
// @Router /patient/{mrNo}/visits [post]
func (h *PatientHandler) AddVisit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateVisitRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	visit, err := h.patientUsecase.AddVisit(r.Context(), mux.Vars(r)["mrNo"], &req)
	if err != nil {
		h.writeError(w, err, "Failed to add visit")
		return
	}

	response.Success(w, http.StatusCreated, "Visit added successfully", visit)
}

func (h *PatientHandler) GetVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.patientUsecase.GetVisits(r.Context(), mux.Vars(r)["mrNo"])
	if err != nil {
		h.writeError(w, err, "Failed to get visits")
		return
	}

	response.Success(w, http.StatusOK, "Visits retrieved successfully", visits)
}
