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

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
	validator      *validator.CustomValidator
}

func NewProductHandler(productUsecase usecase.ProductUsecase, validator *validator.CustomValidator) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
	}
}

func (h *ProductHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		response.NotFound(w, "Product not found")
	case errors.Is(err, usecase.ErrVariantNotFound),
		errors.Is(err, usecase.ErrDuplicateBarcode),
		errors.Is(err, usecase.ErrInvalidStockLevel),
		errors.Is(err, usecase.ErrInvalidAmount):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrBarcodeExists):
		response.Conflict(w, "Barcode already exists")
	default:
		serverError(w, fallback, err)
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	product, err := h.productUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create product")
		return
	}

	response.Success(w, http.StatusCreated, "Product created successfully", product)
}

// GetAll lists products. ?active=true hides deactivated ones.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := pagination.FromRequest(r)
	query := dto.ProductListQuery{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		ActiveOnly: q.Get("active") == "true",
		Page:       p.Page,
		Limit:      p.Limit,
	}

	products, total, err := h.productUsecase.GetAll(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get products")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Products retrieved successfully", products, response.NewMeta(p.Page, p.Limit, total))
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "product")
	if !ok {
		return
	}

	product, err := h.productUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to get product")
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", product)
}

// GetByBarcode resolves a scanned barcode to its product and variant
// @Summary Lookup by barcode
// @Tags Products
// @Security BearerAuth
// @Param barcode path string true "Barcode"
// @Router /products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	lookup, err := h.productUsecase.GetByBarcode(r.Context(), mux.Vars(r)["barcode"])
	if err != nil {
		h.writeError(w, err, "Failed to look up barcode")
		return
	}

	response.Success(w, http.StatusOK, "Product retrieved successfully", lookup)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "product")
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	product, err := h.productUsecase.Update(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update product")
		return
	}

	response.Success(w, http.StatusOK, "Product updated successfully", product)
}

// Delete deactivates the product; its variants and history stay.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "product")
	if !ok {
		return
	}

	if err := h.productUsecase.Delete(r.Context(), actorID, id); err != nil {
		h.writeError(w, err, "Failed to delete product")
		return
	}

	response.Success(w, http.StatusOK, "Product deactivated successfully", nil)
}
