package entity

import (
	"time"

	"github.com/google/uuid"
)

// Filters are domain-level so the repository layer stays decoupled from
// delivery DTOs. Zero values mean "no filter". Limit/Offset of zero return
// everything.

type ProcedureFilter struct {
	PatientMRNo  string
	DepartmentID *uuid.UUID
	Status       ProcedureStatus
	Category     string
	Limit        int
	Offset       int
}

type BillFilter struct {
	Status BillStatus
	From   *time.Time // inclusive
	To     *time.Time // exclusive
	Limit  int
	Offset int
}

type RefundFilter struct {
	Status RefundStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type ExpenseFilter struct {
	Doctor string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type ProductFilter struct {
	Search     string
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type AuditLogFilter struct {
	Action string
	UserID *uuid.UUID
	Limit  int
	Offset int
}

// DateRange is a half-open [From, To) interval
type DateRange struct {
	From time.Time
	To   time.Time
}
