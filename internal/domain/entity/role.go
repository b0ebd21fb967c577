package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role IDs as seeded by the first migration
const (
	RoleIDAdmin        = 1
	RoleIDReceptionist = 2
	RoleIDLab          = 3
	RoleIDRadiology    = 4
	RoleIDDoctor       = 5
	RoleIDNurse        = 6
	RoleIDPatient      = 7
)

const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleLab          = "lab"
	RoleRadiology    = "radiology"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RolePatient      = "patient"
)

var roleNames = map[int]string{
	RoleIDAdmin:        RoleAdmin,
	RoleIDReceptionist: RoleReceptionist,
	RoleIDLab:          RoleLab,
	RoleIDRadiology:    RoleRadiology,
	RoleIDDoctor:       RoleDoctor,
	RoleIDNurse:        RoleNurse,
	RoleIDPatient:      RolePatient,
}

// RoleName returns the seeded name for a role id, or "" if unknown.
func RoleName(roleID int) string {
	return roleNames[roleID]
}
