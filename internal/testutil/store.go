// Package testutil provides an in-memory store implementing the domain
// repositories, plus a transactor that rolls the store back when the
// transaction callback fails.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrInjected = errors.New("injected failure")

type Store struct {
	mu sync.Mutex

	Roles       map[int]entity.Role
	Users       map[uuid.UUID]entity.User
	Departments map[uuid.UUID]entity.Department
	Doctors     map[uuid.UUID]entity.Doctor
	Staff       map[uuid.UUID]entity.Staff
	Patients    map[uuid.UUID]entity.Patient
	Visits      map[uuid.UUID]entity.PatientVisit
	Procedures  map[uuid.UUID]entity.Procedure
	Products    map[uuid.UUID]entity.Product
	Variants    map[uuid.UUID]entity.ProductVariant
	Bills       map[uuid.UUID]entity.Bill
	BillItems   map[uuid.UUID][]entity.BillItem
	Refunds     map[uuid.UUID]entity.Refund
	Expenses    map[uuid.UUID]entity.Expense
	Movements   []entity.StockMovement
	AuditLogs   []entity.AuditLog

	// FailStockAt makes the Nth stock adjustment (1-based) fail.
	FailStockAt int
	stockCalls  int
	seq         int64
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	for id, name := range map[int]string{
		entity.RoleIDAdmin:        entity.RoleAdmin,
		entity.RoleIDReceptionist: entity.RoleReceptionist,
		entity.RoleIDLab:          entity.RoleLab,
		entity.RoleIDRadiology:    entity.RoleRadiology,
		entity.RoleIDDoctor:       entity.RoleDoctor,
		entity.RoleIDNurse:        entity.RoleNurse,
		entity.RoleIDPatient:      entity.RolePatient,
	} {
		s.Roles[id] = entity.Role{ID: id, RoleName: name}
	}
	return s
}

func (s *Store) reset() {
	s.Roles = map[int]entity.Role{}
	s.Users = map[uuid.UUID]entity.User{}
	s.Departments = map[uuid.UUID]entity.Department{}
	s.Doctors = map[uuid.UUID]entity.Doctor{}
	s.Staff = map[uuid.UUID]entity.Staff{}
	s.Patients = map[uuid.UUID]entity.Patient{}
	s.Visits = map[uuid.UUID]entity.PatientVisit{}
	s.Procedures = map[uuid.UUID]entity.Procedure{}
	s.Products = map[uuid.UUID]entity.Product{}
	s.Variants = map[uuid.UUID]entity.ProductVariant{}
	s.Bills = map[uuid.UUID]entity.Bill{}
	s.BillItems = map[uuid.UUID][]entity.BillItem{}
	s.Refunds = map[uuid.UUID]entity.Refund{}
	s.Expenses = map[uuid.UUID]entity.Expense{}
}

// stamp returns a strictly increasing timestamp so ordering by creation
// time is deterministic.
func (s *Store) stamp() time.Time {
	s.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Millisecond)
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type snapshot struct {
	users       map[uuid.UUID]entity.User
	departments map[uuid.UUID]entity.Department
	doctors     map[uuid.UUID]entity.Doctor
	staff       map[uuid.UUID]entity.Staff
	patients    map[uuid.UUID]entity.Patient
	visits      map[uuid.UUID]entity.PatientVisit
	procedures  map[uuid.UUID]entity.Procedure
	products    map[uuid.UUID]entity.Product
	variants    map[uuid.UUID]entity.ProductVariant
	bills       map[uuid.UUID]entity.Bill
	billItems   map[uuid.UUID][]entity.BillItem
	refunds     map[uuid.UUID]entity.Refund
	expenses    map[uuid.UUID]entity.Expense
	movements   []entity.StockMovement
	auditLogs   []entity.AuditLog
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make(map[uuid.UUID][]entity.BillItem, len(s.BillItems))
	for k, v := range s.BillItems {
		items[k] = append([]entity.BillItem(nil), v...)
	}

	return snapshot{
		users:       copyMap(s.Users),
		departments: copyMap(s.Departments),
		doctors:     copyMap(s.Doctors),
		staff:       copyMap(s.Staff),
		patients:    copyMap(s.Patients),
		visits:      copyMap(s.Visits),
		procedures:  copyMap(s.Procedures),
		products:    copyMap(s.Products),
		variants:    copyMap(s.Variants),
		bills:       copyMap(s.Bills),
		billItems:   items,
		refunds:     copyMap(s.Refunds),
		expenses:    copyMap(s.Expenses),
		movements:   append([]entity.StockMovement(nil), s.Movements...),
		auditLogs:   append([]entity.AuditLog(nil), s.AuditLogs...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Users = snap.users
	s.Departments = snap.departments
	s.Doctors = snap.doctors
	s.Staff = snap.staff
	s.Patients = snap.patients
	s.Visits = snap.visits
	s.Procedures = snap.procedures
	s.Products = snap.products
	s.Variants = snap.variants
	s.Bills = snap.bills
	s.BillItems = snap.billItems
	s.Refunds = snap.refunds
	s.Expenses = snap.expenses
	s.Movements = snap.movements
	s.AuditLogs = snap.auditLogs
}

// Transactor runs callbacks against the store. Transactions are serialized
// and rolled back to a snapshot when the callback returns an error.
type Transactor struct {
	store   *Store
	txMu    sync.Mutex
	Commits int
	Rolls   int
}

func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

func (t *Transactor) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (t *Transactor) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.txMu.Lock()
	defer t.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		t.Rolls++
		return err
	}
	t.Commits++
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func inOptionalRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
