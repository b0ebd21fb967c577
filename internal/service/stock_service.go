package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/domain/repository"
	"hospital-frontdesk/internal/infrastructure/messaging"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrStockItemNotFound = errors.New("product or variant for stock adjustment not found")

// StockService keeps product and variant stock in line with bill line items.
// Every method writes through the given tx; callers own the transaction.
type StockService interface {
	Decrease(ctx context.Context, tx *gorm.DB, billID uuid.UUID, items []entity.BillItem) ([]entity.StockMovement, error)
	Increase(ctx context.Context, tx *gorm.DB, billID uuid.UUID, items []entity.BillItem) ([]entity.StockMovement, error)
	Reconcile(ctx context.Context, tx *gorm.DB, oldBill, newBill *entity.Bill) ([]entity.StockMovement, error)
	// Publish emits committed movements. Failures are logged, not returned.
	Publish(ctx context.Context, billID uuid.UUID, movements []entity.StockMovement)
}

// StockEvent is the message published for each bill that moved stock.
type StockEvent struct {
	BillID     uuid.UUID              `json:"bill_id"`
	Movements  []entity.StockMovement `json:"movements"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type stockService struct {
	log       *logrus.Logger
	stockRepo repository.StockRepository
	publisher messaging.Publisher
}

func NewStockService(log *logrus.Logger, stockRepo repository.StockRepository, publisher messaging.Publisher) StockService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &stockService{
		log:       log,
		stockRepo: stockRepo,
		publisher: publisher,
	}
}

func (s *stockService) Decrease(ctx context.Context, tx *gorm.DB, billID uuid.UUID, items []entity.BillItem) ([]entity.StockMovement, error) {
	return s.adjust(tx, billID, items, -1, entity.StockMovementSale)
}

func (s *stockService) Increase(ctx context.Context, tx *gorm.DB, billID uuid.UUID, items []entity.BillItem) ([]entity.StockMovement, error) {
	return s.adjust(tx, billID, items, 1, entity.StockMovementReversal)
}

// Reconcile compares the committed state of both sides of a bill update.
// A bill that stays committed is fully reversed and reapplied, whether or
// not its line items changed.
func (s *stockService) Reconcile(ctx context.Context, tx *gorm.DB, oldBill, newBill *entity.Bill) ([]entity.StockMovement, error) {
	wasCommitted := oldBill.Status.IsStockCommitted()
	isCommitted := newBill.Status.IsStockCommitted()

	switch {
	case !wasCommitted && isCommitted:
		return s.Decrease(ctx, tx, newBill.ID, newBill.Items)
	case wasCommitted && !isCommitted:
		return s.Increase(ctx, tx, oldBill.ID, oldBill.Items)
	case wasCommitted && isCommitted:
		restored, err := s.Increase(ctx, tx, oldBill.ID, oldBill.Items)
		if err != nil {
			return nil, err
		}
		taken, err := s.Decrease(ctx, tx, newBill.ID, newBill.Items)
		if err != nil {
			return nil, err
		}
		return append(restored, taken...), nil
	default:
		return nil, nil
	}
}

func (s *stockService) adjust(tx *gorm.DB, billID uuid.UUID, items []entity.BillItem, sign int, reason entity.StockMovementReason) ([]entity.StockMovement, error) {
	if len(items) == 0 {
		return nil, nil
	}

	movements := make([]entity.StockMovement, 0, len(items))
	for _, item := range items {
		delta := sign * item.Quantity

		var (
			affected int64
			err      error
		)
		if item.VariantID != nil {
			affected, err = s.stockRepo.AdjustVariantStock(tx, item.ProductID, *item.VariantID, delta)
		} else {
			affected, err = s.stockRepo.AdjustProductStock(tx, item.ProductID, delta)
		}
		if err != nil {
			s.log.Warnf("Failed to adjust stock for product %s: %+v", item.ProductID, err)
			return nil, err
		}
		if affected == 0 {
			return nil, fmt.Errorf("%w: product %s", ErrStockItemNotFound, item.ProductID)
		}

		bill := billID
		movements = append(movements, entity.StockMovement{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			BillID:    &bill,
			Quantity:  delta,
			Reason:    reason,
		})
	}

	if err := s.stockRepo.CreateMovements(tx, movements); err != nil {
		s.log.Warnf("Failed to record stock movements: %+v", err)
		return nil, err
	}

	return movements, nil
}

func (s *stockService) Publish(ctx context.Context, billID uuid.UUID, movements []entity.StockMovement) {
	if len(movements) == 0 {
		return
	}

	event := StockEvent{
		BillID:     billID,
		Movements:  movements,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, billID.String(), event); err != nil {
		s.log.Warnf("Failed to publish stock event for bill %s: %+v", billID, err)
	}
}
