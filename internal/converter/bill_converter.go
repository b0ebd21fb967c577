package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func BillToResponse(bill *entity.Bill) *dto.BillResponse {
	if bill == nil {
		return nil
	}

	items := make([]dto.BillItemResponse, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = dto.BillItemResponse{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Barcode:   item.Barcode,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
			Total:     item.Total,
		}
	}

	response := &dto.BillResponse{
		ID:              bill.ID,
		BillNo:          bill.BillNo,
		Items:           items,
		TotalAmount:     bill.TotalAmount,
		CustomerName:    bill.CustomerName,
		CustomerContact: bill.CustomerContact,
		Status:          string(bill.Status),
		PaymentMethod:   bill.PaymentMethod,
		CreatedBy:       bill.CreatedBy,
		CreatedAt:       bill.CreatedAt,
		UpdatedAt:       bill.UpdatedAt,
	}
	if bill.Creator != nil {
		response.CreatorName = bill.Creator.FullName
	}
	return response
}

func BillsToResponses(bills []entity.Bill) []dto.BillResponse {
	responses := make([]dto.BillResponse, len(bills))
	for i := range bills {
		responses[i] = *BillToResponse(&bills[i])
	}
	return responses
}
