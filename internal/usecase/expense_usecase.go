package usecase

import (
	"context"
	"errors"
	"time"

	"hospital-frontdesk/internal/converter"
	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrExpenseNotFound = errors.New("expense not found")

// openRangeEnd closes a summary range given only a start date.
var openRangeEnd = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type ExpenseUsecase interface {
	Create(ctx context.Context, req *dto.ExpenseRequest) (*dto.ExpenseResponse, error)
	GetAll(ctx context.Context, query dto.ExpenseListQuery) ([]dto.ExpenseResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.ExpenseRequest) (*dto.ExpenseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DoctorSummary(ctx context.Context, from, to *time.Time) ([]dto.ExpenseDoctorSummaryResponse, error)
	Totals(ctx context.Context, from, to *time.Time) (*dto.ExpenseTotalsResponse, error)
	CompleteSummary(ctx context.Context, from, to *time.Time) (*dto.ExpenseCompleteSummaryResponse, error)
}

type expenseUsecase struct {
	transactor  database.Transactor
	log         *logrus.Logger
	expenseRepo repository.ExpenseRepository
	now         func() time.Time
}

func NewExpenseUsecase(transactor database.Transactor, log *logrus.Logger, expenseRepo repository.ExpenseRepository) ExpenseUsecase {
	return &expenseUsecase{
		transactor:  transactor,
		log:         log,
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

func summaryRange(from, to *time.Time) *entity.DateRange {
	if from == nil && to == nil {
		return nil
	}
	dr := &entity.DateRange{To: openRangeEnd}
	if from != nil {
		dr.From = *from
	}
	if to != nil {
		dr.To = *to
	}
	return dr
}

func (u *expenseUsecase) apply(expense *entity.Expense, req *dto.ExpenseRequest) error {
	if req.DoctorWelfare.IsNegative() || req.OTExpenses.IsNegative() || req.OtherExpenses.IsNegative() {
		return ErrInvalidAmount
	}

	expense.Doctor = req.Doctor
	expense.DoctorWelfare = req.DoctorWelfare
	expense.OTExpenses = req.OTExpenses
	expense.OtherExpenses = req.OtherExpenses
	expense.Description = req.Description
	if req.ExpenseDate != nil {
		expense.ExpenseDate = *req.ExpenseDate
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = u.now()
	}
	expense.CalculateTotal()
	return nil
}

func (u *expenseUsecase) Create(ctx context.Context, req *dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	expense := &entity.Expense{}
	if err := u.apply(expense, req); err != nil {
		return nil, err
	}

	if err := u.expenseRepo.Create(u.transactor.Conn(ctx), expense); err != nil {
		u.log.Warnf("Failed to create expense: %+v", err)
		return nil, err
	}

	u.log.Infof("Expense %s of %s recorded for %s", expense.ID, expense.Total, expense.Doctor)
	return converter.ExpenseToResponse(expense), nil
}

func (u *expenseUsecase) GetAll(ctx context.Context, query dto.ExpenseListQuery) ([]dto.ExpenseResponse, int64, error) {
	expenses, total, err := u.expenseRepo.FindAll(u.transactor.Conn(ctx), entity.ExpenseFilter{
		Doctor: query.Doctor,
		From:   query.From,
		To:     query.To,
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find expenses: %+v", err)
		return nil, 0, err
	}
	return converter.ExpensesToResponses(expenses), total, nil
}

func (u *expenseUsecase) find(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := u.expenseRepo.FindByID(u.transactor.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find expense: %+v", err)
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

func (u *expenseUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ExpenseResponse, error) {
	expense, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.ExpenseToResponse(expense), nil
}

func (u *expenseUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.ExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.apply(expense, req); err != nil {
		return nil, err
	}

	if err := u.expenseRepo.Update(u.transactor.Conn(ctx), expense); err != nil {
		u.log.Warnf("Failed to update expense: %+v", err)
		return nil, err
	}
	return converter.ExpenseToResponse(expense), nil
}

func (u *expenseUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := u.find(ctx, id); err != nil {
		return err
	}
	if err := u.expenseRepo.SoftDelete(u.transactor.Conn(ctx), id); err != nil {
		u.log.Warnf("Failed to delete expense: %+v", err)
		return err
	}
	u.log.Infof("Expense %s deleted", id)
	return nil
}

func (u *expenseUsecase) DoctorSummary(ctx context.Context, from, to *time.Time) ([]dto.ExpenseDoctorSummaryResponse, error) {
	rows, err := u.expenseRepo.DoctorSummary(u.transactor.Conn(ctx), summaryRange(from, to))
	if err != nil {
		u.log.Warnf("Failed to summarize expenses by doctor: %+v", err)
		return nil, err
	}
	return converter.ExpenseDoctorSummariesToResponses(rows), nil
}

func (u *expenseUsecase) Totals(ctx context.Context, from, to *time.Time) (*dto.ExpenseTotalsResponse, error) {
	totals, err := u.expenseRepo.GrandTotals(u.transactor.Conn(ctx), summaryRange(from, to))
	if err != nil {
		u.log.Warnf("Failed to total expenses: %+v", err)
		return nil, err
	}
	response := converter.ExpenseTotalsToResponse(totals)
	return &response, nil
}

func (u *expenseUsecase) CompleteSummary(ctx context.Context, from, to *time.Time) (*dto.ExpenseCompleteSummaryResponse, error) {
	doctors, err := u.DoctorSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	totals, err := u.Totals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.ExpenseCompleteSummaryResponse{Doctors: doctors, Totals: *totals}, nil
}
