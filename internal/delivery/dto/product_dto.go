package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type VariantRequest struct {
	// ID keeps an existing variant on update; empty creates a new one
	ID           *uuid.UUID      `json:"id"`
	Size         string          `json:"size" validate:"omitempty,max=20"`
	Color        string          `json:"color" validate:"omitempty,max=50"`
	Barcode      string          `json:"barcode" validate:"required,max=100"`
	Stock        int             `json:"stock"`
	BuyingPrice  decimal.Decimal `json:"buying_price" validate:"gte=0"`
	SellingPrice decimal.Decimal `json:"selling_price" validate:"gte=0"`
}

type ProductRequest struct {
	Name        string           `json:"name" validate:"required,min=2"`
	Category    string           `json:"category" validate:"required"`
	Brand       string           `json:"brand"`
	Description string           `json:"description"`
	Discount    decimal.Decimal  `json:"discount" validate:"gte=0"`
	Stock       int              `json:"stock"`
	IsActive    *bool            `json:"is_active"`
	Variants    []VariantRequest `json:"variants" validate:"omitempty,dive"`
}

// Response DTOs

type VariantResponse struct {
	ID           uuid.UUID       `json:"id"`
	Size         string          `json:"size,omitempty"`
	Color        string          `json:"color,omitempty"`
	Barcode      string          `json:"barcode"`
	Stock        int             `json:"stock"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand,omitempty"`
	Description string            `json:"description,omitempty"`
	Discount    decimal.Decimal   `json:"discount"`
	Stock       int               `json:"stock"`
	IsActive    bool              `json:"is_active"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BarcodeLookupResponse is what the POS scanner receives
type BarcodeLookupResponse struct {
	Product ProductResponse `json:"product"`
	Variant VariantResponse `json:"variant"`
}

// ProductListQuery carries the list filters read from the query string
type ProductListQuery struct {
	Search     string
	Category   string
	ActiveOnly bool
	Page       int
	Limit      int
}
