package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct{}

func NewBillRepository() domainRepo.BillRepository {
	return &billRepository{}
}

func (r *billRepository) Create(db *gorm.DB, bill *entity.Bill) error {
	return db.Omit("Creator").Create(bill).Error
}

func (r *billRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := db.Preload("Items").Preload("Creator").Where("id = ?", id).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	locked := db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: clause.CurrentTable}})
	return r.FindByID(locked, id)
}

func (r *billRepository) FindAll(db *gorm.DB, filter entity.BillFilter) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := db.Model(&entity.Bill{}).Scopes(between("created_at", filter.From, filter.To))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Items").Preload("Creator").
		Scopes(paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, 0, err
	}
	return bills, total, nil
}

func (r *billRepository) Update(db *gorm.DB, bill *entity.Bill) error {
	if err := db.Omit("Items", "Creator").Save(bill).Error; err != nil {
		return err
	}

	if err := db.Where("bill_id = ?", bill.ID).Delete(&entity.BillItem{}).Error; err != nil {
		return err
	}
	if len(bill.Items) == 0 {
		return nil
	}

	for i := range bill.Items {
		bill.Items[i].ID = uuid.Nil
		bill.Items[i].BillID = bill.ID
	}
	return db.Create(&bill.Items).Error
}

func (r *billRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Bill{})
	return result.RowsAffected, result.Error
}

func (r *billRepository) SumCommitted(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	var row entity.RevenueTotal
	err := db.Model(&entity.Bill{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Where("status IN ?", []entity.BillStatus{entity.BillStatusCompleted, entity.BillStatusPaid}).
		Where("created_at >= ? AND created_at < ?", dr.From, dr.To).
		Scan(&row).Error
	return row, err
}
