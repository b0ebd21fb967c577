package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func ProcedureToResponse(procedure *entity.Procedure) *dto.ProcedureResponse {
	if procedure == nil {
		return nil
	}

	response := &dto.ProcedureResponse{
		ID:               procedure.ID,
		PatientID:        procedure.PatientID,
		PatientMRNo:      procedure.PatientMRNo,
		PatientName:      procedure.Patient.Name,
		IsExternal:       procedure.IsExternal,
		Token:            procedure.Token,
		TokenNumber:      procedure.TokenNumber,
		DepartmentPrefix: procedure.DepartmentPrefix,
		ProcedureName:    procedure.ProcedureName,
		DepartmentID:     procedure.DepartmentID,
		DepartmentName:   procedure.Department.Name,
		Category:         procedure.Category,
		Description:      procedure.Description,
		ScheduledDate:    procedure.ScheduledDate,
		DurationMinutes:  procedure.DurationMinutes,
		Price:            procedure.Price,
		DoctorID:         procedure.DoctorID,
		DoctorName:       procedure.DoctorName,
		DoctorDepartment: procedure.DoctorDepartment,
		Status:           string(procedure.Status),
		Notes:            procedure.Notes,
		BillingStatus:    string(procedure.BillingStatus),
		AmountPaid:       procedure.AmountPaid,
		PaymentMethod:    procedure.PaymentMethod,
		PaymentDate:      procedure.PaymentDate,
		CreatedAt:        procedure.CreatedAt,
		UpdatedAt:        procedure.UpdatedAt,
	}

	if procedure.IsExternal {
		details := procedure.ExternalPatientDetails.Data()
		response.ExternalPatientDetails = &dto.ExternalPatientRequest{
			Name:      details.Name,
			ContactNo: details.ContactNo,
			Age:       details.Age,
			Gender:    string(details.Gender),
			Address:   details.Address,
		}
	}

	return response
}

func ProceduresToResponses(procedures []entity.Procedure) []dto.ProcedureResponse {
	responses := make([]dto.ProcedureResponse, len(procedures))
	for i := range procedures {
		responses[i] = *ProcedureToResponse(&procedures[i])
	}
	return responses
}
