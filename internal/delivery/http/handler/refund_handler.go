package handler

import (
	"errors"
	"net/http"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/pagination"
	"hospital-frontdesk/pkg/response"
	"hospital-frontdesk/pkg/validator"

	"github.com/gorilla/mux"
)

type RefundHandler struct {
	refundUsecase usecase.RefundUsecase
	validator     *validator.CustomValidator
	location      *time.Location
}

func NewRefundHandler(refundUsecase usecase.RefundUsecase, validator *validator.CustomValidator, location *time.Location) *RefundHandler {
	if location == nil {
		location = time.UTC
	}
	return &RefundHandler{
		refundUsecase: refundUsecase,
		validator:     validator,
		location:      location,
	}
}

func (h *RefundHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrRefundNotFound):
		response.NotFound(w, "Refund not found")
	case errors.Is(err, usecase.ErrPatientNotFound):
		response.NotFound(w, "Patient not found")
	case errors.Is(err, usecase.ErrVisitNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidRefundStatus),
		errors.Is(err, usecase.ErrRefundExceedsPaid):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidRefundTransition):
		response.Conflict(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

// Create files a refund request against a paid OPD visit
// @Summary Create refund
// @Tags Refunds
// @Security BearerAuth
// @Param request body dto.CreateRefundRequest true "Refund"
// @Router /refund/refunds [post]
func (h *RefundHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateRefundRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	refund, err := h.refundUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create refund")
		return
	}

	response.Success(w, http.StatusCreated, "Refund created successfully", refund)
}

func (h *RefundHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p := pagination.FromRequest(r)
	query := dto.RefundListQuery{
		Status: r.URL.Query().Get("status"),
		From:   from,
		To:     to,
		Page:   p.Page,
		Limit:  p.Limit,
	}

	refunds, total, err := h.refundUsecase.GetAll(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get refunds")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Refunds retrieved successfully", refunds, response.NewMeta(p.Page, p.Limit, total))
}

func (h *RefundHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "refund")
	if !ok {
		return
	}

	refund, err := h.refundUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get refund")
		return
	}

	response.Success(w, http.StatusOK, "Refund retrieved successfully", refund)
}

func (h *RefundHandler) GetByPatient(w http.ResponseWriter, r *http.Request) {
	refunds, err := h.refundUsecase.GetByPatientMRNo(r.Context(), mux.Vars(r)["mrNo"])
	if err != nil {
		h.writeError(w, err, "Failed to get refunds")
		return
	}

	response.Success(w, http.StatusOK, "Refunds retrieved successfully", refunds)
}

// GetRefundableVisits lists a patient's paid visits with what is left to refund on each.
func (h *RefundHandler) GetRefundableVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := h.refundUsecase.GetRefundableVisits(r.Context(), mux.Vars(r)["mrNo"])
	if err != nil {
		h.writeError(w, err, "Failed to get visits")
		return
	}

	response.Success(w, http.StatusOK, "Visits retrieved successfully", visits)
}

// UpdateStatus moves a refund through pending, approved, processed or rejected
// @Summary Update refund status
// @Tags Refunds
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Param request body dto.UpdateRefundStatusRequest true "Status"
// @Router /refund/refunds/{id}/status [patch]
func (h *RefundHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "refund")
	if !ok {
		return
	}

	var req dto.UpdateRefundStatusRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	refund, err := h.refundUsecase.UpdateStatus(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update refund status")
		return
	}

	response.Success(w, http.StatusOK, "Refund status updated successfully", refund)
}

func (h *RefundHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.refundUsecase.GetStatistics(r.Context())
	if err != nil {
		h.writeError(w, err, "Failed to get refund statistics")
		return
	}

	response.Success(w, http.StatusOK, "Refund statistics retrieved successfully", stats)
}
