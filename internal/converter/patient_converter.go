package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO.
// Visits are included only when they were loaded.
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:          patient.ID,
		MRNo:        patient.MRNo,
		Name:        patient.Name,
		ContactNo:   patient.ContactNo,
		Age:         patient.Age,
		Gender:      string(patient.Gender),
		Address:     patient.Address,
		IsExternal:  patient.IsExternal,
		TotalVisits: patient.TotalVisits,
		LastVisit:   patient.LastVisit,
		CreatedAt:   patient.CreatedAt,
		UpdatedAt:   patient.UpdatedAt,
	}
	if len(patient.Visits) > 0 {
		response.Visits = VisitsToResponses(patient.Visits)
	}
	return response
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func VisitToResponse(visit *entity.PatientVisit) *dto.VisitResponse {
	if visit == nil {
		return nil
	}

	response := &dto.VisitResponse{
		ID:            visit.ID,
		Kind:          string(visit.Kind),
		DoctorID:      visit.DoctorID,
		ProcedureID:   visit.ProcedureID,
		VisitDate:     visit.VisitDate,
		Token:         visit.Token,
		Purpose:       visit.Purpose,
		Disease:       visit.Disease,
		ReferredBy:    visit.ReferredBy,
		DoctorFee:     visit.DoctorFee,
		Discount:      visit.Discount,
		TotalFee:      visit.TotalFee,
		AmountPaid:    visit.AmountPaid,
		AmountDue:     visit.AmountDue,
		AmountStatus:  string(visit.AmountStatus),
		PaymentMethod: visit.PaymentMethod,
	}
	if visit.Doctor != nil {
		response.DoctorName = visit.Doctor.FullName
	}
	return response
}

func VisitsToResponses(visits []entity.PatientVisit) []dto.VisitResponse {
	responses := make([]dto.VisitResponse, len(visits))
	for i := range visits {
		responses[i] = *VisitToResponse(&visits[i])
	}
	return responses
}
