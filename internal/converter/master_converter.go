package converter

import (
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
)

func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		CreatedAt:   department.CreatedAt,
		UpdatedAt:   department.UpdatedAt,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = *DepartmentToResponse(&departments[i])
	}
	return responses
}

func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                 doctor.ID,
		UserID:             doctor.UserID,
		FullName:           doctor.FullName,
		DepartmentID:       doctor.DepartmentID,
		DepartmentName:     doctor.Department.Name,
		Specialization:     doctor.Specialization,
		Qualification:      doctor.Qualification,
		Contact:            doctor.Contact,
		ConsultationFee:    doctor.ConsultationFee,
		HospitalPercentage: doctor.HospitalPercentage,
		DoctorPercentage:   doctor.DoctorPercentage,
		CreatedAt:          doctor.CreatedAt,
		UpdatedAt:          doctor.UpdatedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func StaffToResponse(staff *entity.Staff) *dto.StaffResponse {
	if staff == nil {
		return nil
	}

	response := &dto.StaffResponse{
		ID:           staff.ID,
		FullName:     staff.FullName,
		Designation:  staff.Designation,
		Contact:      staff.Contact,
		Email:        staff.Email,
		DepartmentID: staff.DepartmentID,
		CreatedAt:    staff.CreatedAt,
		UpdatedAt:    staff.UpdatedAt,
	}
	if staff.Department != nil {
		response.DepartmentName = staff.Department.Name
	}
	return response
}

func StaffListToResponses(staff []entity.Staff) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(staff))
	for i := range staff {
		responses[i] = *StaffToResponse(&staff[i])
	}
	return responses
}
