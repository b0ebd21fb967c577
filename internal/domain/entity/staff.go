package entity

import (
	"time"

	"github.com/google/uuid"
)

type Staff struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string     `gorm:"type:varchar(255);not null"`
	Designation  string     `gorm:"type:varchar(100);not null"`
	Contact      string     `gorm:"type:varchar(50)"`
	Email        string     `gorm:"type:varchar(255)"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	Deleted      bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`

	Department *Department `gorm:"foreignKey:DepartmentID"`
}

func (Staff) TableName() string {
	return "staff"
}
