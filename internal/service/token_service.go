package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
)

const (
	RedisDepartmentTokenPrefix = "token:dept:"
	RedisDoctorTokenPrefix     = "token:doctor:"

	defaultDepartmentPrefix = "G"
	defaultDoctorPrefix     = "GE"
)

// nextTokenScript increments a counter only if it has already been seeded.
// Returns 0 on a miss so the caller can seed it from the database.
var nextTokenScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 1 then
		return redis.call('INCR', KEYS[1])
	end
	return 0
`)

// seedTokenScript installs the database max unless another request seeded
// the key first, then takes the next number.
var seedTokenScript = redis.NewScript(`
	redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2])
	return redis.call('INCR', KEYS[1])
`)

// raiseTokenScript moves a counter forward to at least ARGV[1].
var raiseTokenScript = redis.NewScript(`
	local current = tonumber(redis.call('GET', KEYS[1]) or '0')
	local floor = tonumber(ARGV[1])
	if floor > current then
		redis.call('SET', KEYS[1], floor, 'PX', ARGV[2])
		return floor
	end
	return current
`)

// Ordered: the first matching substring wins.
var departmentPrefixes = []struct {
	match  string
	prefix string
}{
	{"dental", "D"},
	{"dentist", "D"},
	{"skin", "S"},
	{"dermatology", "S"},
	{"eye", "E"},
	{"ophthalmology", "E"},
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// TokenAssignment is a queue ticket handed out for one department or doctor
// on one calendar day.
type TokenAssignment struct {
	Token            string
	TokenNumber      int
	DepartmentPrefix string
	DepartmentName   string
	// TokenDate is the start of the day the token belongs to.
	TokenDate time.Time
}

type TokenService interface {
	AssignDepartmentToken(ctx context.Context, departmentID uuid.UUID, date *time.Time) (*TokenAssignment, error)
	AssignDoctorToken(ctx context.Context, doctorID uuid.UUID, date *time.Time) (*TokenAssignment, error)
	// Resync pulls a counter up to the database max after a unique index
	// conflict showed it had fallen behind.
	ResyncDepartmentCounter(ctx context.Context, departmentID uuid.UUID, date time.Time) error
	ResyncDoctorCounter(ctx context.Context, doctorID uuid.UUID, date time.Time) error
}

type tokenService struct {
	transactor     database.Transactor
	redisClient    *redis.Client
	log            *logrus.Logger
	location       *time.Location
	departmentRepo repository.DepartmentRepository
	doctorRepo     repository.DoctorRepository
	procedureRepo  repository.ProcedureRepository
	visitRepo      repository.PatientVisitRepository
	now            func() time.Time
}

func NewTokenService(
	transactor database.Transactor,
	redisClient *redis.Client,
	log *logrus.Logger,
	location *time.Location,
	departmentRepo repository.DepartmentRepository,
	doctorRepo repository.DoctorRepository,
	procedureRepo repository.ProcedureRepository,
	visitRepo repository.PatientVisitRepository,
) TokenService {
	if location == nil {
		location = time.UTC
	}
	return &tokenService{
		transactor:     transactor,
		redisClient:    redisClient,
		log:            log,
		location:       location,
		departmentRepo: departmentRepo,
		doctorRepo:     doctorRepo,
		procedureRepo:  procedureRepo,
		visitRepo:      visitRepo,
		now:            time.Now,
	}
}

// DepartmentPrefix maps a department name to its procedure token prefix.
func DepartmentPrefix(departmentName string) string {
	lower := strings.ToLower(departmentName)
	for _, p := range departmentPrefixes {
		if strings.Contains(lower, p.match) {
			return p.prefix
		}
	}
	return defaultDepartmentPrefix
}

// DoctorPrefix uses the first two letters of the doctor's department name.
func DoctorPrefix(departmentName string) string {
	letters := make([]rune, 0, 2)
	for _, r := range departmentName {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
			if len(letters) == 2 {
				return strings.ToUpper(string(letters))
			}
		}
	}
	return defaultDoctorPrefix
}

// DayBounds returns [start of day, start + 24h) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour)
}

// FormatToken renders a ticket as "<prefix>-<n>".
func FormatToken(prefix string, number int) string {
	return fmt.Sprintf("%s-%d", prefix, number)
}

func (s *tokenService) AssignDepartmentToken(ctx context.Context, departmentID uuid.UUID, date *time.Time) (*TokenAssignment, error) {
	department, err := s.departmentRepo.FindByID(s.transactor.Conn(ctx), departmentID)
	if err != nil {
		s.log.Warnf("Failed to find department: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	start, end := DayBounds(s.dateOrNow(date), s.location)
	key := departmentCounterKey(departmentID, start)

	number, err := s.next(ctx, key, end, func() (int, error) {
		return s.procedureRepo.MaxTokenNumber(s.transactor.Conn(ctx), departmentID, start)
	})
	if err != nil {
		return nil, err
	}

	prefix := DepartmentPrefix(department.Name)
	return &TokenAssignment{
		Token:            FormatToken(prefix, number),
		TokenNumber:      number,
		DepartmentPrefix: prefix,
		DepartmentName:   department.Name,
		TokenDate:        start,
	}, nil
}

func (s *tokenService) AssignDoctorToken(ctx context.Context, doctorID uuid.UUID, date *time.Time) (*TokenAssignment, error) {
	doctor, err := s.doctorRepo.FindByID(s.transactor.Conn(ctx), doctorID)
	if err != nil {
		s.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	start, end := DayBounds(s.dateOrNow(date), s.location)
	key := doctorCounterKey(doctorID, start)

	number, err := s.next(ctx, key, end, func() (int, error) {
		return s.maxDoctorToken(ctx, doctorID, start)
	})
	if err != nil {
		return nil, err
	}

	prefix := DoctorPrefix(doctor.Department.Name)
	return &TokenAssignment{
		Token:            FormatToken(prefix, number),
		TokenNumber:      number,
		DepartmentPrefix: prefix,
		DepartmentName:   doctor.Department.Name,
		TokenDate:        start,
	}, nil
}

func (s *tokenService) ResyncDepartmentCounter(ctx context.Context, departmentID uuid.UUID, date time.Time) error {
	start, end := DayBounds(date, s.location)
	highest, err := s.procedureRepo.MaxTokenNumber(s.transactor.Conn(ctx), departmentID, start)
	if err != nil {
		s.log.Warnf("Failed to read max token number: %+v", err)
		return err
	}
	return s.raise(ctx, departmentCounterKey(departmentID, start), highest, end)
}

func (s *tokenService) ResyncDoctorCounter(ctx context.Context, doctorID uuid.UUID, date time.Time) error {
	start, end := DayBounds(date, s.location)
	highest, err := s.maxDoctorToken(ctx, doctorID, start)
	if err != nil {
		return err
	}
	return s.raise(ctx, doctorCounterKey(doctorID, start), highest, end)
}

// maxDoctorToken parses the trailing number of every OPD token issued for the
// doctor on the day. Procedure visits carry department tokens and never move
// the doctor counter, so they are left out of the seed as well.
func (s *tokenService) maxDoctorToken(ctx context.Context, doctorID uuid.UUID, day time.Time) (int, error) {
	tokens, err := s.visitRepo.FindDoctorTokens(s.transactor.Conn(ctx), doctorID, day)
	if err != nil {
		s.log.Warnf("Failed to read doctor visit tokens: %+v", err)
		return 0, err
	}

	highest := 0
	for _, token := range tokens {
		match := trailingDigits.FindStringSubmatch(token)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

func (s *tokenService) next(ctx context.Context, key string, dayEnd time.Time, seed func() (int, error)) (int, error) {
	number, err := nextTokenScript.Run(ctx, s.redisClient, []string{key}).Int()
	if err != nil {
		s.log.Warnf("Failed to increment token counter %s: %+v", key, err)
		return 0, err
	}
	if number > 0 {
		return number, nil
	}

	highest, err := seed()
	if err != nil {
		return 0, err
	}

	ttl := counterTTL(dayEnd, s.now())
	number, err = seedTokenScript.Run(ctx, s.redisClient, []string{key}, highest, ttl.Milliseconds()).Int()
	if err != nil {
		s.log.Warnf("Failed to seed token counter %s: %+v", key, err)
		return 0, err
	}

	s.log.Infof("Seeded token counter %s from database max %d", key, highest)
	return number, nil
}

func (s *tokenService) raise(ctx context.Context, key string, floor int, dayEnd time.Time) error {
	ttl := counterTTL(dayEnd, s.now())
	if err := raiseTokenScript.Run(ctx, s.redisClient, []string{key}, floor, ttl.Milliseconds()).Err(); err != nil {
		s.log.Warnf("Failed to resync token counter %s: %+v", key, err)
		return err
	}
	return nil
}

func (s *tokenService) dateOrNow(date *time.Time) time.Time {
	if date == nil || date.IsZero() {
		return s.now()
	}
	return *date
}

func departmentCounterKey(departmentID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisDepartmentTokenPrefix, departmentID, day.Format("2006-01-02"))
}

func doctorCounterKey(doctorID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", RedisDoctorTokenPrefix, doctorID, day.Format("2006-01-02"))
}

// counterTTL keeps a counter until 24 hours after its day ends.
func counterTTL(dayEnd, now time.Time) time.Duration {
	ttl := dayEnd.Add(24 * time.Hour).Sub(now)
	if ttl < time.Minute {
		return time.Minute
	}
	return ttl
}
