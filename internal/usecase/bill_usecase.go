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
	"hospital-frontdesk/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBillNotFound          = errors.New("bill not found")
	ErrInvalidBillStatus     = errors.New("invalid bill status")
	ErrInvalidBillTransition = errors.New("bill status change not allowed")
	ErrBillNoCollision       = errors.New("could not generate a unique bill number")
	ErrStockItemNotFound     = service.ErrStockItemNotFound
)

const maxBillNoAttempts = 3

type BillUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateBillRequest) (*dto.BillResponse, error)
	GetAll(ctx context.Context, query dto.BillListQuery) ([]dto.BillResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateBillRequest) (*dto.BillResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

type billUsecase struct {
	transactor     database.Transactor
	log            *logrus.Logger
	billRepo       repository.BillRepository
	stockService   service.StockService
	auditService   service.AuditService
	generateBillNo func(time.Time) string
	now            func() time.Time
}

func NewBillUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	billRepo repository.BillRepository,
	stockService service.StockService,
	auditService service.AuditService,
) BillUsecase {
	return &billUsecase{
		transactor:     transactor,
		log:            log,
		billRepo:       billRepo,
		stockService:   stockService,
		auditService:   auditService,
		generateBillNo: service.GenerateBillNo,
		now:            time.Now,
	}
}

func parseBillStatus(status string, fallback entity.BillStatus) (entity.BillStatus, error) {
	if status == "" {
		return fallback, nil
	}
	s := entity.BillStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidBillStatus
	}
	return s, nil
}

func billItemsFromRequest(items []dto.BillItemRequest) ([]entity.BillItem, error) {
	out := make([]entity.BillItem, len(items))
	for i, item := range items {
		if item.Quantity < 1 || item.Price.IsNegative() || item.Discount.IsNegative() {
			return nil, ErrInvalidAmount
		}
		out[i] = entity.BillItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Barcode:   item.Barcode,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Discount:  item.Discount,
		}
	}
	return out, nil
}

// Create saves the bill and, when it is created already completed or paid,
// takes its items out of stock in the same transaction.
func (u *billUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateBillRequest) (*dto.BillResponse, error) {
	status, err := parseBillStatus(req.Status, entity.BillStatusHold)
	if err != nil {
		return nil, err
	}
	items, err := billItemsFromRequest(req.Items)
	if err != nil {
		return nil, err
	}

	bill := &entity.Bill{
		Items:           items,
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		Status:          status,
		PaymentMethod:   req.PaymentMethod,
		CreatedBy:       &actorID,
	}
	bill.RecalculateTotals()

	var movements []entity.StockMovement
	for attempt := 1; attempt <= maxBillNoAttempts; attempt++ {
		bill.ID = uuid.Nil
		bill.BillNo = u.generateBillNo(u.now())

		err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
			if err := u.billRepo.Create(tx, bill); err != nil {
				return err
			}
			if status.IsStockCommitted() {
				var err error
				if movements, err = u.stockService.Decrease(ctx, tx, bill.ID, bill.Items); err != nil {
					return err
				}
			}
			return u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionBillCreate, "bill", bill.ID.String(), converter.BillToResponse(bill))
		})
		if err == nil {
			break
		}
		if isUnknownBillItem(err) {
			return nil, ErrStockItemNotFound
		}
		if !isDuplicateKeyError(err, "bill_no") {
			u.log.Warnf("Failed to create bill: %+v", err)
			return nil, err
		}
		u.log.Warnf("Bill number %s already taken (attempt %d)", bill.BillNo, attempt)
	}
	if err != nil {
		return nil, ErrBillNoCollision
	}

	u.stockService.Publish(ctx, bill.ID, movements)
	u.log.Infof("Bill %s (%s) created with status %s", bill.ID, bill.BillNo, bill.Status)
	return converter.BillToResponse(bill), nil
}

func (u *billUsecase) GetAll(ctx context.Context, query dto.BillListQuery) ([]dto.BillResponse, int64, error) {
	filter := entity.BillFilter{
		From:   query.From,
		To:     query.To,
		Limit:  query.Limit,
		Offset: (query.Page - 1) * query.Limit,
	}
	if query.Status != "" {
		status, err := parseBillStatus(query.Status, "")
		if err != nil {
			return nil, 0, err
		}
		filter.Status = status
	}

	bills, total, err := u.billRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find bills: %+v", err)
		return nil, 0, err
	}
	return converter.BillsToResponses(bills), total, nil
}

func (u *billUsecase) find(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	bill, err := u.billRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find bill: %+v", err)
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	return bill, nil
}

func (u *billUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.BillResponse, error) {
	bill, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.BillToResponse(bill), nil
}

// Update saves the new header and items and reconciles stock between the
// old and new committed state, all in one transaction. The old bill is read
// under a row lock so concurrent edits reconcile against the latest status.
func (u *billUsecase) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.UpdateBillRequest) (*dto.BillResponse, error) {
	if _, err := parseBillStatus(req.Status, entity.BillStatusHold); err != nil {
		return nil, err
	}
	var items []entity.BillItem
	if req.Items != nil {
		var err error
		if items, err = billItemsFromRequest(req.Items); err != nil {
			return nil, err
		}
	}

	var oldBill, newBill *entity.Bill
	var movements []entity.StockMovement
	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if oldBill, err = u.findForUpdate(tx, id); err != nil {
			return err
		}
		status, _ := parseBillStatus(req.Status, oldBill.Status)
		if !oldBill.Status.CanTransitionTo(status) {
			return ErrInvalidBillTransition
		}

		newBill = applyBillUpdate(oldBill, status, items, req)
		if err := u.billRepo.Update(tx, newBill); err != nil {
			return err
		}
		if movements, err = u.stockService.Reconcile(ctx, tx, oldBill, newBill); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionBillUpdate, "bill", newBill.ID.String(), converter.BillToResponse(oldBill), converter.BillToResponse(newBill))
	})
	if err != nil {
		if isUnknownBillItem(err) {
			return nil, ErrStockItemNotFound
		}
		if !errors.Is(err, ErrBillNotFound) && !errors.Is(err, ErrInvalidBillTransition) {
			u.log.Warnf("Failed to update bill: %+v", err)
		}
		return nil, err
	}

	u.stockService.Publish(ctx, newBill.ID, movements)
	u.log.Infof("Bill %s updated %s -> %s", newBill.ID, oldBill.Status, newBill.Status)
	return converter.BillToResponse(newBill), nil
}

func applyBillUpdate(oldBill *entity.Bill, status entity.BillStatus, items []entity.BillItem, req *dto.UpdateBillRequest) *entity.Bill {
	newBill := *oldBill
	newBill.Status = status
	if req.Items != nil {
		newBill.Items = items
	} else {
		newBill.Items = append([]entity.BillItem(nil), oldBill.Items...)
	}
	if req.CustomerName != nil {
		newBill.CustomerName = *req.CustomerName
	}
	if req.CustomerContact != nil {
		newBill.CustomerContact = *req.CustomerContact
	}
	if req.PaymentMethod != nil {
		newBill.PaymentMethod = *req.PaymentMethod
	}
	newBill.RecalculateTotals()
	return &newBill
}

func (u *billUsecase) findForUpdate(tx *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	bill, err := u.billRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, ErrBillNotFound
	}
	return bill, nil
}

// isUnknownBillItem reports a line item naming a product or variant that
// does not exist, caught by the bill_items foreign keys.
func isUnknownBillItem(err error) bool {
	return isForeignKeyError(err, "product_id") || isForeignKeyError(err, "variant_id")
}

// Delete removes the bill, putting its items back when it had been
// committed. Stock movements keep their bill id.
func (u *billUsecase) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	var bill *entity.Bill
	var movements []entity.StockMovement
	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if bill, err = u.findForUpdate(tx, id); err != nil {
			return err
		}
		if bill.Status.IsStockCommitted() {
			if movements, err = u.stockService.Increase(ctx, tx, bill.ID, bill.Items); err != nil {
				return err
			}
		}
		deleted, err := u.billRepo.Delete(tx, bill.ID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrBillNotFound
		}
		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionBillDelete, "bill", bill.ID.String(), converter.BillToResponse(bill))
	})
	if err != nil {
		if !errors.Is(err, ErrBillNotFound) {
			u.log.Warnf("Failed to delete bill: %+v", err)
		}
		return err
	}

	u.stockService.Publish(ctx, bill.ID, movements)
	u.log.Infof("Bill %s deleted", bill.ID)
	return nil
}
