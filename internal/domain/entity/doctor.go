package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor carries the contract split used by the financial summary.
// HospitalPercentage and DoctorPercentage add up to 100.
type Doctor struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             *uuid.UUID      `gorm:"type:uuid"`
	FullName           string          `gorm:"type:varchar(255);not null"`
	DepartmentID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Specialization     string          `gorm:"type:varchar(150)"`
	Qualification      string          `gorm:"type:varchar(150)"`
	Contact            string          `gorm:"type:varchar(50)"`
	ConsultationFee    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	HospitalPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DoctorPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:100"`
	Deleted            bool            `gorm:"not null;default:false"`
	CreatedAt          time.Time       `gorm:"autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime"`

	Department Department `gorm:"foreignKey:DepartmentID"`
}

func (Doctor) TableName() string {
	return "doctors"
}
