package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func RefundToResponse(refund *entity.Refund) *dto.RefundResponse {
	if refund == nil {
		return nil
	}

	return &dto.RefundResponse{
		ID:           refund.ID,
		PatientID:    refund.PatientID,
		PatientMRNo:  refund.PatientMRNo,
		PatientName:  refund.Patient.Name,
		VisitID:      refund.VisitID,
		VisitToken:   refund.Visit.Token,
		RefundAmount: refund.RefundAmount,
		Reason:       refund.Reason,
		RefundMethod: refund.RefundMethod,
		Status:       string(refund.Status),
		Remarks:      refund.Remarks,
		CreatedBy:    refund.CreatedBy,
		ProcessedBy:  refund.ProcessedBy,
		ProcessedAt:  refund.ProcessedAt,
		CreatedAt:    refund.CreatedAt,
		UpdatedAt:    refund.UpdatedAt,
	}
}

func RefundsToResponses(refunds []entity.Refund) []dto.RefundResponse {
	responses := make([]dto.RefundResponse, len(refunds))
	for i := range refunds {
		responses[i] = *RefundToResponse(&refunds[i])
	}
	return responses
}

func ExpenseToResponse(expense *entity.Expense) *dto.ExpenseResponse {
	if expense == nil {
		return nil
	}

	return &dto.ExpenseResponse{
		ID:            expense.ID,
		Doctor:        expense.Doctor,
		DoctorWelfare: expense.DoctorWelfare,
		OTExpenses:    expense.OTExpenses,
		OtherExpenses: expense.OtherExpenses,
		Description:   expense.Description,
		ExpenseDate:   expense.ExpenseDate,
		Total:         expense.Total,
		CreatedAt:     expense.CreatedAt,
		UpdatedAt:     expense.UpdatedAt,
	}
}

func ExpensesToResponses(expenses []entity.Expense) []dto.ExpenseResponse {
	responses := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = *ExpenseToResponse(&expenses[i])
	}
	return responses
}

func ExpenseDoctorSummariesToResponses(rows []entity.ExpenseDoctorSummary) []dto.ExpenseDoctorSummaryResponse {
	responses := make([]dto.ExpenseDoctorSummaryResponse, len(rows))
	for i, row := range rows {
		responses[i] = dto.ExpenseDoctorSummaryResponse{
			Doctor:       row.Doctor,
			TotalWelfare: row.TotalWelfare,
			TotalOT:      row.TotalOT,
			TotalOther:   row.TotalOther,
			TotalAmount:  row.TotalAmount,
			Count:        row.Count,
		}
	}
	return responses
}

func ExpenseTotalsToResponse(totals entity.ExpenseGrandTotals) dto.ExpenseTotalsResponse {
	return dto.ExpenseTotalsResponse{
		GrandWelfare: totals.GrandWelfare,
		GrandOT:      totals.GrandOT,
		GrandOther:   totals.GrandOther,
		GrandTotal:   totals.GrandTotal,
		TotalEntries: totals.TotalEntries,
		TotalDoctors: totals.TotalDoctors,
	}
}
