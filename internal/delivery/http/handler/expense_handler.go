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

type ExpenseHandler struct {
	expenseUsecase usecase.ExpenseUsecase
	validator      *validator.CustomValidator
	location       *time.Location
}

func NewExpenseHandler(expenseUsecase usecase.ExpenseUsecase, validator *validator.CustomValidator, location *time.Location) *ExpenseHandler {
	if location == nil {
		location = time.UTC
	}
	return &ExpenseHandler{
		expenseUsecase: expenseUsecase,
		validator:      validator,
		location:       location,
	}
}

func (h *ExpenseHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrExpenseNotFound):
		response.NotFound(w, "Expense not found")
	case errors.Is(err, usecase.ErrInvalidAmount):
		response.BadRequest(w, err.Error())
	default:
		serverError(w, fallback, err)
	}
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	expense, err := h.expenseUsecase.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create expense")
		return
	}

	response.Success(w, http.StatusCreated, "Expense created successfully", expense)
}

func (h *ExpenseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p := pagination.FromRequest(r)
	query := dto.ExpenseListQuery{
		Doctor: r.URL.Query().Get("doctor"),
		From:   from,
		To:     to,
		Page:   p.Page,
		Limit:  p.Limit,
	}

	expenses, total, err := h.expenseUsecase.GetAll(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get expenses")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Expenses retrieved successfully", expenses, response.NewMeta(p.Page, p.Limit, total))
}

func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "expense")
	if !ok {
		return
	}

	expense, err := h.expenseUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense retrieved successfully", expense)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "expense")
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	expense, err := h.expenseUsecase.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense updated successfully", expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "expense")
	if !ok {
		return
	}

	if err := h.expenseUsecase.Delete(r.Context(), id); err != nil {
		h.writeError(w, err, "Failed to delete expense")
		return
	}

	response.Success(w, http.StatusOK, "Expense deleted successfully", nil)
}

// DoctorSummary totals expenses per doctor
// @Summary Expense summary by doctor
// @Tags Expenses
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD, inclusive"
// @Router /expense/summary/doctors [get]
func (h *ExpenseHandler) DoctorSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	summary, err := h.expenseUsecase.DoctorSummary(r.Context(), from, to)
	if err != nil {
		h.writeError(w, err, "Failed to get expense summary")
		return
	}

	response.Success(w, http.StatusOK, "Expense summary retrieved successfully", summary)
}

func (h *ExpenseHandler) Totals(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	totals, err := h.expenseUsecase.Totals(r.Context(), from, to)
	if err != nil {
		h.writeError(w, err, "Failed to get expense totals")
		return
	}

	response.Success(w, http.StatusOK, "Expense totals retrieved successfully", totals)
}

func (h *ExpenseHandler) CompleteSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	summary, err := h.expenseUsecase.CompleteSummary(r.Context(), from, to)
	if err != nil {
		h.writeError(w, err, "Failed to get expense summary")
		return
	}

	response.Success(w, http.StatusOK, "Expense summary retrieved successfully", summary)
}
