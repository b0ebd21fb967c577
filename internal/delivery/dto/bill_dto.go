package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type BillItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	VariantID *uuid.UUID      `json:"variant_id"`
	Name      string          `json:"name" validate:"required"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Barcode   string          `json:"barcode"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Discount  decimal.Decimal `json:"discount" validate:"gte=0"`
}

type CreateBillRequest struct {
	Items           []BillItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName    string            `json:"customer_name"`
	CustomerContact string            `json:"customer_contact" validate:"omitempty,max=50"`
	// Status defaults to hold
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
}

// UpdateBillRequest keeps the current line items when Items is omitted
type UpdateBillRequest struct {
	Items           []BillItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	CustomerName    *string           `json:"customer_name"`
	CustomerContact *string           `json:"customer_contact"`
	Status          string            `json:"status"`
	PaymentMethod   *string           `json:"payment_method" validate:"omitempty,oneof=cash card bank_transfer online"`
}

type BillListQuery struct {
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Response DTOs

type BillItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	BillNo          string             `json:"bill_no"`
	Items           []BillItemResponse `json:"items"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	CustomerName    string             `json:"customer_name,omitempty"`
	CustomerContact string             `json:"customer_contact,omitempty"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	CreatedBy       *uuid.UUID         `json:"created_by,omitempty"`
	CreatorName     string             `json:"creator_name,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
