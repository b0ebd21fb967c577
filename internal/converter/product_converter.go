package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func VariantToResponse(variant *entity.ProductVariant) *dto.VariantResponse {
	if variant == nil {
		return nil
	}

	return &dto.VariantResponse{
		ID:           variant.ID,
		Size:         variant.Size,
		Color:        variant.Color,
		Barcode:      variant.Barcode,
		Stock:        variant.Stock,
		BuyingPrice:  variant.BuyingPrice,
		SellingPrice: variant.SellingPrice,
	}
}

func ProductToResponse(product *entity.Product) *dto.ProductResponse {
	if product == nil {
		return nil
	}

	variants := make([]dto.VariantResponse, len(product.Variants))
	for i := range product.Variants {
		variants[i] = *VariantToResponse(&product.Variants[i])
	}

	return &dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Brand:       product.Brand,
		Description: product.Description,
		Discount:    product.Discount,
		Stock:       product.Stock,
		IsActive:    product.IsActive,
		Variants:    variants,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func ProductsToResponses(products []entity.Product) []dto.ProductResponse {
	responses := make([]dto.ProductResponse, len(products))
	for i := range products {
		responses[i] = *ProductToResponse(&products[i])
	}
	return responses
}
