package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type DepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=150"`
	Description string `json:"description"`
}

type DoctorRequest struct {
	UserID             *uuid.UUID      `json:"user_id"`
	FullName           string          `json:"full_name" validate:"required,min=2"`
	DepartmentID       uuid.UUID       `json:"department_id" validate:"required"`
	Specialization     string          `json:"specialization" validate:"omitempty,max=150"`
	Qualification      string          `json:"qualification" validate:"omitempty,max=150"`
	Contact            string          `json:"contact" validate:"omitempty,max=50"`
	ConsultationFee    decimal.Decimal `json:"consultation_fee" validate:"gte=0"`
	HospitalPercentage decimal.Decimal `json:"hospital_percentage" validate:"gte=0,lte=100"`
	DoctorPercentage   decimal.Decimal `json:"doctor_percentage" validate:"gte=0,lte=100"`
}

type StaffRequest struct {
	FullName     string     `json:"full_name" validate:"required,min=2"`
	Designation  string     `json:"designation" validate:"required,max=100"`
	Contact      string     `json:"contact" validate:"omitempty,max=50"`
	Email        string     `json:"email" validate:"omitempty,email"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// Response DTOs

type DepartmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DoctorResponse struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             *uuid.UUID      `json:"user_id,omitempty"`
	FullName           string          `json:"full_name"`
	DepartmentID       uuid.UUID       `json:"department_id"`
	DepartmentName     string          `json:"department_name"`
	Specialization     string          `json:"specialization,omitempty"`
	Qualification      string          `json:"qualification,omitempty"`
	Contact            string          `json:"contact,omitempty"`
	ConsultationFee    decimal.Decimal `json:"consultation_fee"`
	HospitalPercentage decimal.Decimal `json:"hospital_percentage"`
	DoctorPercentage   decimal.Decimal `json:"doctor_percentage"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type StaffResponse struct {
	ID             uuid.UUID  `json:"id"`
	FullName       string     `json:"full_name"`
	Designation    string     `json:"designation"`
	Contact        string     `json:"contact,omitempty"`
	Email          string     `json:"email,omitempty"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	DepartmentName string     `json:"department_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
