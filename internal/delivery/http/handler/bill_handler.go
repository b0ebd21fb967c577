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
)

type BillHandler struct {
	billUsecase usecase.BillUsecase
	validator   *validator.CustomValidator
	location    *time.Location
}

func NewBillHandler(billUsecase usecase.BillUsecase, validator *validator.CustomValidator, location *time.Location) *BillHandler {
	if location == nil {
		location = time.UTC
	}
	return &BillHandler{
		billUsecase: billUsecase,
		validator:   validator,
		location:    location,
	}
}

func (h *BillHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrBillNotFound):
		response.NotFound(w, "Bill not found")
	case errors.Is(err, usecase.ErrInvalidBillStatus), errors.Is(err, usecase.ErrStockItemNotFound):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrInvalidBillTransition), errors.Is(err, usecase.ErrBillNoCollision):
		response.Conflict(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

// Create records a bill. Stock is taken when the bill is created in a
// committed status (completed or paid).
// @Summary Create bill
// @Tags Bills
// @Security BearerAuth
// @Param request body dto.CreateBillRequest true "Bill"
// @Router /bills [post]
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateBillRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	bill, err := h.billUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create bill")
		return
	}

	response.Success(w, http.StatusCreated, "Bill created successfully", bill)
}

func (h *BillHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p := pagination.FromRequest(r)
	query := dto.BillListQuery{
		Status: r.URL.Query().Get("status"),
		From:   from,
		To:     to,
		Page:   p.Page,
		Limit:  p.Limit,
	}

	bills, total, err := h.billUsecase.GetAll(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get bills")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Bills retrieved successfully", bills, response.NewMeta(p.Page, p.Limit, total))
}

func (h *BillHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	bill, err := h.billUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill retrieved successfully", bill)
}

// Update replaces items and status and reconciles stock against the
// previous state of the bill
// @Summary Update bill
// @Tags Bills
// @Security BearerAuth
// @Param id path string true "Bill ID"
// @Param request body dto.UpdateBillRequest true "Bill"
// @Router /bills/{id} [put]
func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	var req dto.UpdateBillRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	bill, err := h.billUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill updated successfully", bill)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "bill")
	if !ok {
		return
	}

	if err := h.billUsecase.Delete(r.Context(), actorID, id); err != nil {
		h.writeError(w, err, "Failed to delete bill")
		return
	}

	response.Success(w, http.StatusOK, "Bill deleted successfully", nil)
}
