package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu       sync.Mutex
	keys     []string
	messages []interface{}
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.messages = append(p.messages, value)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type stockFixture struct {
	store      *testutil.Store
	transactor *testutil.Transactor
	publisher  *recordingPublisher
	svc        StockService

	productID uuid.UUID // sold through variantID
	variantID uuid.UUID
	plainID   uuid.UUID // sold without variants
}

func newStockFixture() *stockFixture {
	store := testutil.NewStore()
	publisher := &recordingPublisher{}

	f := &stockFixture{
		store:      store,
		transactor: testutil.NewTransactor(store),
		publisher:  publisher,
		svc:        NewStockService(testutil.NewLogger(), testutil.StockRepo{S: store}, publisher),
		productID:  uuid.New(),
		variantID:  uuid.New(),
		plainID:    uuid.New(),
	}

	store.Products[f.productID] = entity.Product{ID: f.productID, Name: "Scrub Top", IsActive: true}
	store.Variants[f.variantID] = entity.ProductVariant{
		ID:        f.variantID,
		ProductID: f.productID,
		Barcode:   "SCRUB-M-BLUE",
		Stock:     10,
		IsActive:  true,
	}
	store.Products[f.plainID] = entity.Product{ID: f.plainID, Name: "Face Mask", Stock: 50, IsActive: true}
	return f
}

func (f *stockFixture) variantStock() int { return f.store.Variants[f.variantID].Stock }
func (f *stockFixture) plainStock() int   { return f.store.Products[f.plainID].Stock }

func (f *stockFixture) items(variantQty, plainQty int) []entity.BillItem {
	variantID := f.variantID
	return []entity.BillItem{
		{ProductID: f.productID, VariantID: &variantID, Quantity: variantQty, Price: decimal.NewFromInt(20)},
		{ProductID: f.plainID, Quantity: plainQty, Price: decimal.NewFromInt(1)},
	}
}

func (f *stockFixture) bill(status entity.BillStatus, items []entity.BillItem) *entity.Bill {
	return &entity.Bill{ID: uuid.New(), Status: status, Items: items}
}

func (f *stockFixture) reconcile(t *testing.T, oldBill, newBill *entity.Bill) []entity.StockMovement {
	t.Helper()
	var movements []entity.StockMovement
	err := f.transactor.WithTransaction(context.Background(), func(tx *gorm.DB) error {
		var err error
		movements, err = f.svc.Reconcile(context.Background(), tx, oldBill, newBill)
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return movements
}

func TestReconcile_EnteringCommittedTakesStock(t *testing.T) {
	f := newStockFixture()
	items := f.items(2, 5)
	old := f.bill(entity.BillStatusHold, items)
	updated := &entity.Bill{ID: old.ID, Status: entity.BillStatusCompleted, Items: items}

	movements := f.reconcile(t, old, updated)

	if f.variantStock() != 8 || f.plainStock() != 45 {
		t.Errorf("expected stock 8/45, got %d/%d", f.variantStock(), f.plainStock())
	}
	if len(movements) != 2 || len(f.store.Movements) != 2 {
		t.Fatalf("expected 2 movements, got %d (stored %d)", len(movements), len(f.store.Movements))
	}
	for _, m := range movements {
		if m.Reason != entity.StockMovementSale || m.Quantity >= 0 {
			t.Errorf("unexpected movement %+v", m)
		}
		if m.BillID == nil || *m.BillID != old.ID {
			t.Errorf("movement not linked to bill: %+v", m)
		}
	}
}

func TestReconcile_LeavingCommittedRestoresOldItems(t *testing.T) {
	f := newStockFixture()
	old := f.bill(entity.BillStatusPaid, f.items(3, 4))
	// The new item list is irrelevant; the old one was what left the shelf.
	updated := &entity.Bill{ID: old.ID, Status: entity.BillStatusCancelled, Items: f.items(1, 1)}

	movements := f.reconcile(t, old, updated)

	if f.variantStock() != 13 || f.plainStock() != 54 {
		t.Errorf("expected stock 13/54, got %d/%d", f.variantStock(), f.plainStock())
	}
	for _, m := range movements {
		if m.Reason != entity.StockMovementReversal || m.Quantity <= 0 {
			t.Errorf("unexpected movement %+v", m)
		}
	}
}

func TestReconcile_StayingCommittedReversesThenReapplies(t *testing.T) {
	f := newStockFixture()
	old := f.bill(entity.BillStatusCompleted, f.items(2, 10))
	updated := &entity.Bill{ID: old.ID, Status: entity.BillStatusPaid, Items: f.items(5, 1)}

	movements := f.reconcile(t, old, updated)

	// net effect: variant -3, plain +9
	if f.variantStock() != 7 || f.plainStock() != 59 {
		t.Errorf("expected stock 7/59, got %d/%d", f.variantStock(), f.plainStock())
	}
	if len(movements) != 4 {
		t.Fatalf("expected 4 movements, got %d", len(movements))
	}
	if movements[0].Reason != entity.StockMovementReversal || movements[3].Reason != entity.StockMovementSale {
		t.Errorf("expected reversals before sales, got %+v", movements)
	}
}

func TestReconcile_StayingCommittedWithSameItemsIsNetZero(t *testing.T) {
	f := newStockFixture()
	old := f.bill(entity.BillStatusCompleted, f.items(2, 2))
	updated := &entity.Bill{ID: old.ID, Status: entity.BillStatusCompleted, Items: f.items(2, 2)}

	f.reconcile(t, old, updated)

	if f.variantStock() != 10 || f.plainStock() != 50 {
		t.Errorf("expected unchanged stock, got %d/%d", f.variantStock(), f.plainStock())
	}
}

func TestReconcile_NonCommittedStatusesLeaveStockAlone(t *testing.T) {
	pairs := [][2]entity.BillStatus{
		{entity.BillStatusHold, entity.BillStatusPending},
		{entity.BillStatusPending, entity.BillStatusPrinted},
		{entity.BillStatusPrinted, entity.BillStatusCancelled},
	}
	for _, pair := range pairs {
		f := newStockFixture()
		old := f.bill(pair[0], f.items(1, 1))
		updated := &entity.Bill{ID: old.ID, Status: pair[1], Items: f.items(4, 4)}

		movements := f.reconcile(t, old, updated)

		if len(movements) != 0 || f.variantStock() != 10 || f.plainStock() != 50 {
			t.Errorf("%s -> %s moved stock: %d movements, stock %d/%d",
				pair[0], pair[1], len(movements), f.variantStock(), f.plainStock())
		}
	}
}

func TestReconcile_FailureRollsBackEverything(t *testing.T) {
	f := newStockFixture()
	f.store.FailStockAt = 3 // first item of the reapply step
	old := f.bill(entity.BillStatusCompleted, f.items(2, 2))
	updated := &entity.Bill{ID: old.ID, Status: entity.BillStatusPaid, Items: f.items(6, 6)}

	err := f.transactor.WithTransaction(context.Background(), func(tx *gorm.DB) error {
		_, err := f.svc.Reconcile(context.Background(), tx, old, updated)
		return err
	})

	if !errors.Is(err, testutil.ErrInjected) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if f.variantStock() != 10 || f.plainStock() != 50 {
		t.Errorf("expected stock restored, got %d/%d", f.variantStock(), f.plainStock())
	}
	if len(f.store.Movements) != 0 {
		t.Errorf("expected no movements after rollback, got %d", len(f.store.Movements))
	}
	if f.transactor.Rolls != 1 {
		t.Errorf("expected one rollback, got %d", f.transactor.Rolls)
	}
}

func TestDecrease_UnknownProductFails(t *testing.T) {
	f := newStockFixture()
	items := []entity.BillItem{
		{ProductID: f.plainID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1},
	}

	err := f.transactor.WithTransaction(context.Background(), func(tx *gorm.DB) error {
		_, err := f.svc.Decrease(context.Background(), tx, uuid.New(), items)
		return err
	})

	if !errors.Is(err, ErrStockItemNotFound) {
		t.Fatalf("expected ErrStockItemNotFound, got %v", err)
	}
	if f.plainStock() != 50 {
		t.Errorf("expected stock restored, got %d", f.plainStock())
	}
}

func TestDecrease_VariantOfAnotherProductFails(t *testing.T) {
	f := newStockFixture()
	variantID := f.variantID
	items := []entity.BillItem{{ProductID: f.plainID, VariantID: &variantID, Quantity: 1}}

	_, err := f.svc.Decrease(context.Background(), nil, uuid.New(), items)
	if !errors.Is(err, ErrStockItemNotFound) {
		t.Fatalf("expected ErrStockItemNotFound, got %v", err)
	}
}

func TestPublish_SendsEventKeyedByBill(t *testing.T) {
	f := newStockFixture()
	billID := uuid.New()

	f.svc.Publish(context.Background(), billID, []entity.StockMovement{{ProductID: f.plainID, Quantity: -1}})
	f.svc.Publish(context.Background(), billID, nil)

	if len(f.publisher.keys) != 1 || f.publisher.keys[0] != billID.String() {
		t.Fatalf("expected one event keyed by bill, got %v", f.publisher.keys)
	}
	event, ok := f.publisher.messages[0].(StockEvent)
	if !ok || event.BillID != billID || len(event.Movements) != 1 {
		t.Errorf("unexpected event %+v", f.publisher.messages[0])
	}
}

func TestPublish_ErrorsAreSwallowed(t *testing.T) {
	f := newStockFixture()
	f.publisher.err = errors.New("broker down")

	// must not panic or block
	f.svc.Publish(context.Background(), uuid.New(), []entity.StockMovement{{ProductID: f.plainID, Quantity: 1}})

	if len(f.publisher.keys) != 1 {
		t.Errorf("expected a publish attempt, got %d", len(f.publisher.keys))
	}
}
