package testutil

import (
	"sort"
	"strings"
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepo struct{ S *Store }

func (r RoleRepo) FindByID(db *gorm.DB, id int) (*entity.Role, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	role, ok := r.S.Roles[id]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (r RoleRepo) FindAll(db *gorm.DB) ([]entity.Role, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	roles := make([]entity.Role, 0, len(r.S.Roles))
	for _, role := range r.S.Roles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

type UserRepo struct{ S *Store }

func (r UserRepo) Create(db *gorm.DB, user *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation("uq_users_email")
		}
	}
	user.ID = newID(user.ID)
	user.CreatedAt = r.S.stamp()
	user.UpdatedAt = user.CreatedAt
	r.S.Users[user.ID] = *user
	return nil
}

func (r UserRepo) withRole(u entity.User) *entity.User {
	u.Role = r.S.Roles[u.RoleID]
	return &u
}

func (r UserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if u.Email == email && !u.Deleted {
			return r.withRole(u), nil
		}
	}
	return nil, nil
}

func (r UserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	u, ok := r.S.Users[id]
	if !ok || u.Deleted {
		return nil, nil
	}
	return r.withRole(u), nil
}

func (r UserRepo) FindAll(db *gorm.DB, limit, offset int) ([]entity.User, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var users []entity.User
	for _, u := range r.S.Users {
		if !u.Deleted {
			users = append(users, *r.withRole(u))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, limit, offset), int64(len(users)), nil
}

func (r UserRepo) Update(db *gorm.DB, user *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for id, u := range r.S.Users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation("uq_users_email")
		}
	}
	stored := *user
	stored.Role = entity.Role{}
	r.S.Users[user.ID] = stored
	return nil
}

func (r UserRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if u, ok := r.S.Users[id]; ok {
		u.Deleted = true
		u.IsActive = false
		r.S.Users[id] = u
	}
	return nil
}

type AuditLogRepo struct{ S *Store }

func (r AuditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	log.ID = int64(len(r.S.AuditLogs) + 1)
	log.CreatedAt = r.S.stamp()
	r.S.AuditLogs = append(r.S.AuditLogs, *log)
	return nil
}

func (r AuditLogRepo) FindAll(db *gorm.DB, filter entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var logs []entity.AuditLog
	for i := len(r.S.AuditLogs) - 1; i >= 0; i-- {
		l := r.S.AuditLogs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.UserID != nil && (l.UserID == nil || *l.UserID != *filter.UserID) {
			continue
		}
		logs = append(logs, l)
	}
	return page(logs, filter.Limit, filter.Offset), int64(len(logs)), nil
}

func (r AuditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, l := range r.S.AuditLogs {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

type DepartmentRepo struct{ S *Store }

func (r DepartmentRepo) Create(db *gorm.DB, department *entity.Department) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, d := range r.S.Departments {
		if d.Name == department.Name {
			return uniqueViolation("uq_departments_name")
		}
	}
	department.ID = newID(department.ID)
	department.CreatedAt = r.S.stamp()
	r.S.Departments[department.ID] = *department
	return nil
}

func (r DepartmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Department, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	d, ok := r.S.Departments[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r DepartmentRepo) FindAll(db *gorm.DB) ([]entity.Department, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var departments []entity.Department
	for _, d := range r.S.Departments {
		departments = append(departments, d)
	}
	sort.Slice(departments, func(i, j int) bool { return departments[i].Name < departments[j].Name })
	return departments, nil
}

func (r DepartmentRepo) Update(db *gorm.DB, department *entity.Department) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for id, d := range r.S.Departments {
		if id != department.ID && d.Name == department.Name {
			return uniqueViolation("uq_departments_name")
		}
	}
	r.S.Departments[department.ID] = *department
	return nil
}

func (r DepartmentRepo) Delete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, d := range r.S.Doctors {
		if d.DepartmentID == id {
			return foreignKeyViolation("doctors_department_id_fkey")
		}
	}
	for _, p := range r.S.Procedures {
		if p.DepartmentID == id {
			return foreignKeyViolation("procedures_department_id_fkey")
		}
	}
	delete(r.S.Departments, id)
	return nil
}

type DoctorRepo struct{ S *Store }

func (r DoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	doctor.ID = newID(doctor.ID)
	doctor.CreatedAt = r.S.stamp()
	stored := *doctor
	stored.Department = entity.Department{}
	r.S.Doctors[doctor.ID] = stored
	return nil
}

func (r DoctorRepo) load(d entity.Doctor) entity.Doctor {
	d.Department = r.S.Departments[d.DepartmentID]
	return d
}

func (r DoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	d, ok := r.S.Doctors[id]
	if !ok || d.Deleted {
		return nil, nil
	}
	d = r.load(d)
	return &d, nil
}

func (r DoctorRepo) FindAll(db *gorm.DB, departmentID *uuid.UUID) ([]entity.Doctor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var doctors []entity.Doctor
	for _, d := range r.S.Doctors {
		if d.Deleted || (departmentID != nil && d.DepartmentID != *departmentID) {
			continue
		}
		doctors = append(doctors, r.load(d))
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].FullName < doctors[j].FullName })
	return doctors, nil
}

func (r DoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored := *doctor
	stored.Department = entity.Department{}
	r.S.Doctors[doctor.ID] = stored
	return nil
}

func (r DoctorRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if d, ok := r.S.Doctors[id]; ok {
		d.Deleted = true
		r.S.Doctors[id] = d
	}
	return nil
}

type StaffRepo struct{ S *Store }

func (r StaffRepo) Create(db *gorm.DB, staff *entity.Staff) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	staff.ID = newID(staff.ID)
	staff.CreatedAt = r.S.stamp()
	r.S.Staff[staff.ID] = *staff
	return nil
}

func (r StaffRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	s, ok := r.S.Staff[id]
	if !ok || s.Deleted {
		return nil, nil
	}
	return &s, nil
}

func (r StaffRepo) FindAll(db *gorm.DB, limit, offset int) ([]entity.Staff, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var staff []entity.Staff
	for _, s := range r.S.Staff {
		if !s.Deleted {
			staff = append(staff, s)
		}
	}
	sort.Slice(staff, func(i, j int) bool { return staff[i].FullName < staff[j].FullName })
	return page(staff, limit, offset), int64(len(staff)), nil
}

func (r StaffRepo) Update(db *gorm.DB, staff *entity.Staff) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Staff[staff.ID] = *staff
	return nil
}

func (r StaffRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if s, ok := r.S.Staff[id]; ok {
		s.Deleted = true
		r.S.Staff[id] = s
	}
	return nil
}

type PatientRepo struct{ S *Store }

func (r PatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Patients {
		if p.MRNo == patient.MRNo {
			return uniqueViolation("uq_patients_mr_no")
		}
	}
	patient.ID = newID(patient.ID)
	patient.CreatedAt = r.S.stamp()
	stored := *patient
	stored.Visits = nil
	r.S.Patients[patient.ID] = stored
	return nil
}

func (r PatientRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Patients[id]
	if !ok || p.Deleted {
		return nil, nil
	}
	return &p, nil
}

func (r PatientRepo) FindByMRNo(db *gorm.DB, mrNo string) (*entity.Patient, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Patients {
		if p.MRNo == mrNo && !p.Deleted {
			return &p, nil
		}
	}
	return nil, nil
}

func (r PatientRepo) ExistsByMRNo(db *gorm.DB, mrNo string) (bool, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Patients {
		if p.MRNo == mrNo {
			return true, nil
		}
	}
	return false, nil
}

func (r PatientRepo) FindAll(db *gorm.DB, search string, limit, offset int) ([]entity.Patient, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	term := strings.ToLower(search)
	var patients []entity.Patient
	for _, p := range r.S.Patients {
		if p.Deleted {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.MRNo), term) &&
			!strings.Contains(strings.ToLower(p.ContactNo), term) {
			continue
		}
		patients = append(patients, p)
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].CreatedAt.After(patients[j].CreatedAt) })
	return page(patients, limit, offset), int64(len(patients)), nil
}

func (r PatientRepo) Update(db *gorm.DB, patient *entity.Patient) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored := *patient
	stored.Visits = nil
	r.S.Patients[patient.ID] = stored
	return nil
}

func (r PatientRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Patients[id]; ok {
		p.Deleted = true
		r.S.Patients[id] = p
	}
	return nil
}

func (r PatientRepo) RecordVisit(db *gorm.DB, id uuid.UUID, visitDate time.Time) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Patients[id]; ok {
		p.TotalVisits++
		p.LastVisit = &visitDate
		r.S.Patients[id] = p
	}
	return nil
}
