package testutil

import (
	"sort"
	"time"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VisitRepo struct{ S *Store }

func (r VisitRepo) Create(db *gorm.DB, visit *entity.PatientVisit) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if visit.Kind == entity.VisitKindOPD && visit.DoctorID != nil {
		for _, v := range r.S.Visits {
			if v.Kind == entity.VisitKindOPD && v.DoctorID != nil && *v.DoctorID == *visit.DoctorID &&
				v.TokenDate.Equal(visit.TokenDate) && v.Token == visit.Token {
				return uniqueViolation("uq_patient_visits_doctor_token")
			}
		}
	}
	visit.ID = newID(visit.ID)
	visit.CreatedAt = r.S.stamp()
	stored := *visit
	stored.Doctor = nil
	r.S.Visits[visit.ID] = stored
	return nil
}

func (r VisitRepo) load(v entity.PatientVisit) entity.PatientVisit {
	if v.DoctorID != nil {
		if d, ok := r.S.Doctors[*v.DoctorID]; ok {
			v.Doctor = &d
		}
	}
	return v
}

func (r VisitRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PatientVisit, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	v, ok := r.S.Visits[id]
	if !ok {
		return nil, nil
	}
	v = r.load(v)
	return &v, nil
}

func (r VisitRepo) FindByPatient(db *gorm.DB, patientID uuid.UUID) ([]entity.PatientVisit, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var visits []entity.PatientVisit
	for _, v := range r.S.Visits {
		if v.PatientID == patientID {
			visits = append(visits, r.load(v))
		}
	}
	sort.Slice(visits, func(i, j int) bool { return visits[i].VisitDate.After(visits[j].VisitDate) })
	return visits, nil
}

func (r VisitRepo) FindDoctorTokens(db *gorm.DB, doctorID uuid.UUID, tokenDate time.Time) ([]string, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var tokens []string
	for _, v := range r.S.Visits {
		if v.Kind != entity.VisitKindOPD || v.DoctorID == nil || *v.DoctorID != doctorID || !v.TokenDate.Equal(tokenDate) {
			continue
		}
		if p, ok := r.S.Patients[v.PatientID]; ok && p.Deleted {
			continue
		}
		tokens = append(tokens, v.Token)
	}
	return tokens, nil
}

func (r VisitRepo) SumPaidByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRevenue, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	rows := map[uuid.UUID]*entity.DoctorRevenue{}
	for _, v := range r.S.Visits {
		if v.Kind != entity.VisitKindOPD || v.DoctorID == nil || !inRange(v.VisitDate, dr.From, dr.To) {
			continue
		}
		if doctorID != nil && *v.DoctorID != *doctorID {
			continue
		}
		doctor, ok := r.S.Doctors[*v.DoctorID]
		if !ok {
			continue
		}
		row, ok := rows[doctor.ID]
		if !ok {
			row = &entity.DoctorRevenue{
				DoctorID:           doctor.ID,
				DoctorName:         doctor.FullName,
				HospitalPercentage: doctor.HospitalPercentage,
				DoctorPercentage:   doctor.DoctorPercentage,
				TotalPaid:          decimal.Zero,
			}
			rows[doctor.ID] = row
		}
		row.VisitCount++
		row.TotalPaid = row.TotalPaid.Add(v.AmountPaid)
	}

	out := make([]entity.DoctorRevenue, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DoctorName < out[j].DoctorName })
	return out, nil
}

type ProcedureRepo struct{ S *Store }

func (r ProcedureRepo) conflicts(p *entity.Procedure) bool {
	if p.Deleted {
		return false
	}
	for id, other := range r.S.Procedures {
		if id != p.ID && !other.Deleted && other.DepartmentID == p.DepartmentID &&
			other.TokenDate.Equal(p.TokenDate) && other.TokenNumber == p.TokenNumber {
			return true
		}
	}
	return false
}

func (r ProcedureRepo) Create(db *gorm.DB, procedure *entity.Procedure) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.conflicts(procedure) {
		return uniqueViolation("uq_procedures_department_token")
	}
	procedure.ID = newID(procedure.ID)
	procedure.CreatedAt = r.S.stamp()
	stored := *procedure
	stored.Patient = entity.Patient{}
	stored.Department = entity.Department{}
	r.S.Procedures[procedure.ID] = stored
	return nil
}

func (r ProcedureRepo) load(p entity.Procedure) entity.Procedure {
	p.Patient = r.S.Patients[p.PatientID]
	p.Department = r.S.Departments[p.DepartmentID]
	return p
}

func (r ProcedureRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Procedure, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Procedures[id]
	if !ok || p.Deleted {
		return nil, nil
	}
	p = r.load(p)
	return &p, nil
}

func (r ProcedureRepo) FindAll(db *gorm.DB, filter entity.ProcedureFilter) ([]entity.Procedure, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var procedures []entity.Procedure
	for _, p := range r.S.Procedures {
		switch {
		case p.Deleted,
			filter.PatientMRNo != "" && p.PatientMRNo != filter.PatientMRNo,
			filter.DepartmentID != nil && p.DepartmentID != *filter.DepartmentID,
			filter.Status != "" && p.Status != filter.Status,
			filter.Category != "" && p.Category != filter.Category:
			continue
		}
		procedures = append(procedures, r.load(p))
	}
	sort.Slice(procedures, func(i, j int) bool {
		return procedures[i].ScheduledDate.After(procedures[j].ScheduledDate)
	})
	return page(procedures, filter.Limit, filter.Offset), int64(len(procedures)), nil
}

func (r ProcedureRepo) Update(db *gorm.DB, procedure *entity.Procedure) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.conflicts(procedure) {
		return uniqueViolation("uq_procedures_department_token")
	}
	stored := *procedure
	stored.Patient = entity.Patient{}
	stored.Department = entity.Department{}
	r.S.Procedures[procedure.ID] = stored
	return nil
}

func (r ProcedureRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Procedures[id]; ok {
		p.Deleted = true
		r.S.Procedures[id] = p
	}
	return nil
}

func (r ProcedureRepo) MaxTokenNumber(db *gorm.DB, departmentID uuid.UUID, tokenDate time.Time) (int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	highest := 0
	for _, p := range r.S.Procedures {
		if !p.Deleted && p.DepartmentID == departmentID && p.TokenDate.Equal(tokenDate) && p.TokenNumber > highest {
			highest = p.TokenNumber
		}
	}
	return highest, nil
}

func (r ProcedureRepo) SumPaid(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	row := entity.RevenueTotal{Total: decimal.Zero}
	for _, p := range r.S.Procedures {
		if !p.Deleted && inRange(p.ScheduledDate, dr.From, dr.To) {
			row.Count++
			row.Total = row.Total.Add(p.AmountPaid)
		}
	}
	return row, nil
}

type RefundRepo struct{ S *Store }

func (r RefundRepo) Create(db *gorm.DB, refund *entity.Refund) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	refund.ID = newID(refund.ID)
	if refund.CreatedAt.IsZero() {
		refund.CreatedAt = r.S.stamp()
	}
	stored := *refund
	stored.Patient = entity.Patient{}
	stored.Visit = entity.PatientVisit{}
	r.S.Refunds[refund.ID] = stored
	return nil
}

func (r RefundRepo) load(f entity.Refund) entity.Refund {
	f.Patient = r.S.Patients[f.PatientID]
	f.Visit = r.S.Visits[f.VisitID]
	return f
}

func (r RefundRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Refund, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	f, ok := r.S.Refunds[id]
	if !ok {
		return nil, nil
	}
	f = r.load(f)
	return &f, nil
}

func (r RefundRepo) FindAll(db *gorm.DB, filter entity.RefundFilter) ([]entity.Refund, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var refunds []entity.Refund
	for _, f := range r.S.Refunds {
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if !inOptionalRange(f.CreatedAt, filter.From, filter.To) {
			continue
		}
		refunds = append(refunds, r.load(f))
	}
	sort.Slice(refunds, func(i, j int) bool { return refunds[i].CreatedAt.After(refunds[j].CreatedAt) })
	return page(refunds, filter.Limit, filter.Offset), int64(len(refunds)), nil
}

func (r RefundRepo) FindByMRNo(db *gorm.DB, mrNo string) ([]entity.Refund, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var refunds []entity.Refund
	for _, f := range r.S.Refunds {
		if f.PatientMRNo == mrNo {
			refunds = append(refunds, r.load(f))
		}
	}
	sort.Slice(refunds, func(i, j int) bool { return refunds[i].CreatedAt.After(refunds[j].CreatedAt) })
	return refunds, nil
}

func (r RefundRepo) Update(db *gorm.DB, refund *entity.Refund) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored := *refund
	stored.Patient = entity.Patient{}
	stored.Visit = entity.PatientVisit{}
	r.S.Refunds[refund.ID] = stored
	return nil
}

func (r RefundRepo) SumForVisit(db *gorm.DB, visitID uuid.UUID) (decimal.Decimal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	total := decimal.Zero
	for _, f := range r.S.Refunds {
		if f.VisitID == visitID && f.Status.CountsAgainstVisit() {
			total = total.Add(f.RefundAmount)
		}
	}
	return total, nil
}

func (r RefundRepo) CountByStatus(db *gorm.DB) ([]entity.RefundStatusCount, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	rows := map[entity.RefundStatus]*entity.RefundStatusCount{}
	for _, f := range r.S.Refunds {
		row, ok := rows[f.Status]
		if !ok {
			row = &entity.RefundStatusCount{Status: f.Status, Total: decimal.Zero}
			rows[f.Status] = row
		}
		row.Count++
		row.Total = row.Total.Add(f.RefundAmount)
	}
	out := make([]entity.RefundStatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (r RefundRepo) SumCreatedIn(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	row := entity.RevenueTotal{Total: decimal.Zero}
	for _, f := range r.S.Refunds {
		if f.Status.CountsAgainstVisit() && inRange(f.CreatedAt, dr.From, dr.To) {
			row.Count++
			row.Total = row.Total.Add(f.RefundAmount)
		}
	}
	return row, nil
}

func (r RefundRepo) SumSettledByDoctor(db *gorm.DB, dr entity.DateRange, doctorID *uuid.UUID) ([]entity.DoctorRefund, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	totals := map[uuid.UUID]decimal.Decimal{}
	for _, f := range r.S.Refunds {
		if f.Status != entity.RefundStatusApproved && f.Status != entity.RefundStatusProcessed {
			continue
		}
		if !inRange(f.CreatedAt, dr.From, dr.To) {
			continue
		}
		visit, ok := r.S.Visits[f.VisitID]
		if !ok || visit.DoctorID == nil || (doctorID != nil && *visit.DoctorID != *doctorID) {
			continue
		}
		totals[*visit.DoctorID] = totals[*visit.DoctorID].Add(f.RefundAmount)
	}
	out := make([]entity.DoctorRefund, 0, len(totals))
	for id, total := range totals {
		out = append(out, entity.DoctorRefund{DoctorID: id, TotalRefund: total})
	}
	return out, nil
}

type ExpenseRepo struct{ S *Store }

func (r ExpenseRepo) Create(db *gorm.DB, expense *entity.Expense) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	expense.ID = newID(expense.ID)
	expense.CreatedAt = r.S.stamp()
	r.S.Expenses[expense.ID] = *expense
	return nil
}

func (r ExpenseRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Expense, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	e, ok := r.S.Expenses[id]
	if !ok || e.Deleted {
		return nil, nil
	}
	return &e, nil
}

func (r ExpenseRepo) FindAll(db *gorm.DB, filter entity.ExpenseFilter) ([]entity.Expense, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var expenses []entity.Expense
	for _, e := range r.S.Expenses {
		if e.Deleted || !inOptionalRange(e.ExpenseDate, filter.From, filter.To) {
			continue
		}
		if filter.Doctor != "" && e.Doctor != filter.Doctor {
			continue
		}
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate) })
	return page(expenses, filter.Limit, filter.Offset), int64(len(expenses)), nil
}

func (r ExpenseRepo) Update(db *gorm.DB, expense *entity.Expense) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Expenses[expense.ID] = *expense
	return nil
}

func (r ExpenseRepo) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if e, ok := r.S.Expenses[id]; ok {
		e.Deleted = true
		r.S.Expenses[id] = e
	}
	return nil
}

func (r ExpenseRepo) live(dr *entity.DateRange) []entity.Expense {
	var out []entity.Expense
	for _, e := range r.S.Expenses {
		if e.Deleted || (dr != nil && !inRange(e.ExpenseDate, dr.From, dr.To)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r ExpenseRepo) DoctorSummary(db *gorm.DB, dr *entity.DateRange) ([]entity.ExpenseDoctorSummary, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	rows := map[string]*entity.ExpenseDoctorSummary{}
	for _, e := range r.live(dr) {
		row, ok := rows[e.Doctor]
		if !ok {
			row = &entity.ExpenseDoctorSummary{Doctor: e.Doctor}
			rows[e.Doctor] = row
		}
		row.TotalWelfare = row.TotalWelfare.Add(e.DoctorWelfare)
		row.TotalOT = row.TotalOT.Add(e.OTExpenses)
		row.TotalOther = row.TotalOther.Add(e.OtherExpenses)
		row.TotalAmount = row.TotalAmount.Add(e.Total)
		row.Count++
	}
	out := make([]entity.ExpenseDoctorSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalAmount.GreaterThan(out[j].TotalAmount) })
	return out, nil
}

func (r ExpenseRepo) GrandTotals(db *gorm.DB, dr *entity.DateRange) (entity.ExpenseGrandTotals, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var totals entity.ExpenseGrandTotals
	doctors := map[string]struct{}{}
	for _, e := range r.live(dr) {
		totals.GrandWelfare = totals.GrandWelfare.Add(e.DoctorWelfare)
		totals.GrandOT = totals.GrandOT.Add(e.OTExpenses)
		totals.GrandOther = totals.GrandOther.Add(e.OtherExpenses)
		totals.GrandTotal = totals.GrandTotal.Add(e.Total)
		totals.TotalEntries++
		doctors[e.Doctor] = struct{}{}
	}
	totals.TotalDoctors = int64(len(doctors))
	return totals, nil
}
