package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type expenseRepository struct{}

func NewExpenseRepository() domainRepo.ExpenseRepository {
	return &expenseRepository{}
}

func (r *expenseRepository) Create(db *gorm.DB, expense *entity.Expense) error {
	return db.Create(expense).Error
}

func (r *expenseRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Expense, error) {
	var expense entity.Expense
	err := db.Where("id = ? AND deleted = ?", id, false).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) FindAll(db *gorm.DB, filter entity.ExpenseFilter) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := db.Model(&entity.Expense{}).
		Where("deleted = ?", false).
		Scopes(between("expense_date", filter.From, filter.To))
	if filter.Doctor != "" {
		query = query.Where("doctor ILIKE ?", "%"+filter.Doctor+"%")
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(paginate(filter.Limit, filter.Offset)).Order("expense_date DESC").Find(&expenses).Error
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *expenseRepository) Update(db *gorm.DB, expense *entity.Expense) error {
	return db.Save(expense).Error
}

func (r *expenseRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Expense{}).Where("id = ?", id).Update("deleted", true).Error
}

func (r *expenseRepository) DoctorSummary(db *gorm.DB, dr *entity.DateRange) ([]entity.ExpenseDoctorSummary, error) {
	var rows []entity.ExpenseDoctorSummary

	query := db.Model(&entity.Expense{}).
		Select(`doctor,
			COALESCE(SUM(doctor_welfare), 0) AS total_welfare,
			COALESCE(SUM(ot_expenses), 0) AS total_ot,
			COALESCE(SUM(other_expenses), 0) AS total_other,
			COALESCE(SUM(total), 0) AS total_amount,
			COUNT(*) AS count`).
		Where("deleted = ?", false)
	if dr != nil {
		query = query.Where("expense_date >= ? AND expense_date < ?", dr.From, dr.To)
	}

	if err := query.Group("doctor").Order("total_amount DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *expenseRepository) GrandTotals(db *gorm.DB, dr *entity.DateRange) (entity.ExpenseGrandTotals, error) {
	var row entity.ExpenseGrandTotals

	query := db.Model(&entity.Expense{}).
		Select(`COALESCE(SUM(doctor_welfare), 0) AS grand_welfare,
			COALESCE(SUM(ot_expenses), 0) AS grand_ot,
			COALESCE(SUM(other_expenses), 0) AS grand_other,
			COALESCE(SUM(total), 0) AS grand_total,
			COUNT(*) AS total_entries,
			COUNT(DISTINCT doctor) AS total_doctors`).
		Where("deleted = ?", false)
	if dr != nil {
		query = query.Where("expense_date >= ? AND expense_date < ?", dr.From, dr.To)
	}

	err := query.Scan(&row).Error
	return row, err
}
