package usecase

import (
	"testing"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var clinicDay = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *testutil.Store
	tx       *testutil.Transactor
	mr       *miniredis.Miniredis
	redis    *redis.Client
	log      *logrus.Logger
	tokens   service.TokenService
	audit    service.AuditService
	sessions service.SessionService
	actorID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := testutil.NewStore()
	tx := testutil.NewTransactor(store)
	log := testutil.NewLogger()

	return &fixture{
		store: store,
		tx:    tx,
		mr:    mr,
		redis: client,
		log:   log,
		tokens: service.NewTokenService(tx, client, log, time.UTC,
			testutil.DepartmentRepo{S: store},
			testutil.DoctorRepo{S: store},
			testutil.ProcedureRepo{S: store},
			testutil.VisitRepo{S: store},
		),
		audit:    service.NewAuditService(log, testutil.AuditLogRepo{S: store}),
		sessions: service.NewSessionService(client, log),
		actorID:  uuid.New(),
	}
}

func (f *fixture) addDepartment(name string) uuid.UUID {
	id := uuid.New()
	f.store.Departments[id] = entity.Department{ID: id, Name: name}
	return id
}

func (f *fixture) addDoctor(name string, departmentID uuid.UUID, fee int64) uuid.UUID {
	id := uuid.New()
	f.store.Doctors[id] = entity.Doctor{
		ID:                 id,
		FullName:           name,
		DepartmentID:       departmentID,
		ConsultationFee:    decimal.NewFromInt(fee),
		HospitalPercentage: decimal.NewFromInt(40),
		DoctorPercentage:   decimal.NewFromInt(60),
	}
	return id
}

func (f *fixture) addPatient(mrNo, name string) uuid.UUID {
	id := uuid.New()
	f.store.Patients[id] = entity.Patient{ID: id, MRNo: mrNo, Name: name, ContactNo: "0300-1234567"}
	return id
}

// addVisit stores a paid OPD visit for the doctor.
func (f *fixture) addVisit(patientID, doctorID uuid.UUID, paid string, at time.Time) uuid.UUID {
	id := uuid.New()
	f.store.Visits[id] = entity.PatientVisit{
		ID:           id,
		PatientID:    patientID,
		DoctorID:     &doctorID,
		Kind:         entity.VisitKindOPD,
		VisitDate:    at,
		TokenDate:    time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		Token:        "GE-1",
		DoctorFee:    dec(paid),
		TotalFee:     dec(paid),
		AmountPaid:   dec(paid),
		AmountDue:    decimal.Zero,
		AmountStatus: entity.AmountStatusPaid,
	}
	return id
}

func (f *fixture) auditActions() []string {
	actions := make([]string, len(f.store.AuditLogs))
	for i, l := range f.store.AuditLogs {
		actions[i] = l.Action
	}
	return actions
}

// sequence returns a generator that hands out the given values in order
// and repeats the last one.
func sequence(values ...string) func(time.Time) string {
	i := 0
	return func(time.Time) string {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func fixedNow() time.Time {
	return clinicDay
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func strPtr(v string) *string {
	return &v
}
