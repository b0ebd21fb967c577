package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/domain/entity"
	"hospital-frontdesk/internal/testutil"

	"github.com/google/uuid"
)

func newProductUsecase(f *fixture) ProductUsecase {
	return NewProductUsecase(f.tx, f.log, testutil.ProductRepo{S: f.store}, f.audit)
}

func shirtRequest(barcodes ...string) *dto.ProductRequest {
	req := &dto.ProductRequest{Name: "Scrub Top", Category: "apparel", Brand: "MedWear", Discount: dec("50")}
	for _, b := range barcodes {
		req.Variants = append(req.Variants, dto.VariantRequest{
			Size:         "M",
			Barcode:      b,
			Stock:        10,
			BuyingPrice:  dec("700"),
			SellingPrice: dec("1200"),
		})
	}
	return req
}

func TestProductCreate(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)

	resp, err := u.Create(context.Background(), f.actorID, shirtRequest("8901", "8902"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !resp.IsActive || len(resp.Variants) != 2 {
		t.Errorf("response = %+v", resp)
	}
	if len(f.store.Variants) != 2 {
		t.Errorf("stored variants = %d, want 2", len(f.store.Variants))
	}
	if got := f.auditActions(); len(got) != 1 || got[0] != entity.AuditActionProductCreate {
		t.Errorf("audit = %v", got)
	}
}

func TestProductCreate_BarcodeConflicts(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)
	ctx := context.Background()

	if _, err := u.Create(ctx, f.actorID, shirtRequest("8901")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Create(ctx, f.actorID, shirtRequest("8901")); !errors.Is(err, ErrBarcodeExists) {
		t.Errorf("taken barcode err = %v, want ErrBarcodeExists", err)
	}
	if _, err := u.Create(ctx, f.actorID, shirtRequest("7001", "7001")); !errors.Is(err, ErrDuplicateBarcode) {
		t.Errorf("repeated barcode err = %v, want ErrDuplicateBarcode", err)
	}
	if len(f.store.Products) != 1 || len(f.store.AuditLogs) != 1 {
		t.Errorf("products/audit = %d/%d, want 1/1", len(f.store.Products), len(f.store.AuditLogs))
	}
}

func TestProductUpdate_ReplacesVariants(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, shirtRequest("8901", "8902"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	kept := created.Variants[0]

	req := shirtRequest("8903")
	req.Variants = append(req.Variants, dto.VariantRequest{ID: &kept.ID, Barcode: kept.Barcode, Stock: 4, SellingPrice: dec("1300")})
	req.Name = "Scrub Top v2"

	resp, err := u.Update(ctx, f.actorID, created.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.Name != "Scrub Top v2" || len(resp.Variants) != 2 {
		t.Fatalf("response = %+v", resp)
	}

	v, ok := f.store.Variants[kept.ID]
	if !ok || v.Stock != 4 || !v.SellingPrice.Equal(dec("1300")) {
		t.Errorf("kept variant = %+v (present %v)", v, ok)
	}
	dropped := created.Variants[1]
	if v, ok := f.store.Variants[dropped.ID]; !ok || v.IsActive {
		t.Errorf("dropped variant = %+v (present %v), want kept inactive", v, ok)
	}
	for _, v := range resp.Variants {
		if v.ID == dropped.ID {
			t.Errorf("dropped variant still listed")
		}
	}
}

func TestProductUpdate_RetiredVariantStillRestoresOnBillDelete(t *testing.T) {
	f := newBillFixture(t)
	products := newProductUsecase(f.fixture)
	ctx := context.Background()

	bill, err := f.u.Create(ctx, f.actorID, &dto.CreateBillRequest{Items: f.items(2, 3), Status: "paid"})
	if err != nil {
		t.Fatalf("Create bill: %v", err)
	}

	resp, err := products.Update(ctx, f.actorID, f.productID, shirtRequest("9999"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(resp.Variants) != 1 || resp.Variants[0].Barcode != "9999" {
		t.Errorf("variants = %+v", resp.Variants)
	}
	if v := f.store.Variants[f.variantID]; v.IsActive || v.Stock != 8 {
		t.Errorf("sold variant = %+v, want inactive with stock 8", v)
	}
	if _, err := products.GetByBarcode(ctx, "8901"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("retired barcode err = %v, want ErrProductNotFound", err)
	}

	if err := f.u.Delete(ctx, f.actorID, bill.ID); err != nil {
		t.Fatalf("Delete bill: %v", err)
	}
	if v, p := f.stock(); v != 10 || p != 50 {
		t.Errorf("stock = %d/%d, want 10/50", v, p)
	}
}

func TestProductUpdate_ReplacementTakesOverBarcode(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, shirtRequest("8901"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := u.Update(ctx, f.actorID, created.ID, shirtRequest("8901")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := u.GetByBarcode(ctx, "8901")
	if err != nil {
		t.Fatalf("GetByBarcode: %v", err)
	}
	if found.Variant.ID == created.Variants[0].ID {
		t.Errorf("lookup returned the retired variant")
	}
	if _, err := u.Create(ctx, f.actorID, shirtRequest("8901")); !errors.Is(err, ErrBarcodeExists) {
		t.Errorf("taken barcode err = %v, want ErrBarcodeExists", err)
	}
}

func TestProductUpdate_ConcurrentDeactivateIsKept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := newProductUsecase(f).Create(ctx, f.actorID, shirtRequest("8901"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	gate := &gatedTransactor{Transactor: f.tx}
	gate.arrived.Add(2)
	u := NewProductUsecase(gate, f.log, testutil.ProductRepo{S: f.store}, f.audit)

	req := shirtRequest()
	kept := created.Variants[0]
	req.Variants = []dto.VariantRequest{{ID: &kept.ID, Barcode: kept.Barcode, Stock: 7, SellingPrice: dec("1200")}}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = u.Update(ctx, f.actorID, created.ID, req)
	}()
	go func() {
		defer wg.Done()
		errs[1] = u.Delete(ctx, f.actorID, created.ID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("err = %v", err)
		}
	}
	if f.store.Products[created.ID].IsActive {
		t.Errorf("product reactivated by a concurrent edit")
	}
	if v := f.store.Variants[kept.ID]; v.Stock != 7 {
		t.Errorf("variant stock = %d, want 7", v.Stock)
	}
}

func TestProductUpdate_ForeignVariant(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, shirtRequest("8901"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	foreign := uuid.New()
	req := shirtRequest()
	req.Variants = []dto.VariantRequest{{ID: &foreign, Barcode: "5555"}}
	if _, err := u.Update(ctx, f.actorID, created.ID, req); !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("err = %v, want ErrVariantNotFound", err)
	}
	if _, err := u.Update(ctx, f.actorID, uuid.New(), shirtRequest()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("unknown product err = %v", err)
	}
}

func TestProductBarcodeLookupAndDeactivate(t *testing.T) {
	f := newFixture(t)
	u := newProductUsecase(f)
	ctx := context.Background()

	created, err := u.Create(ctx, f.actorID, shirtRequest("8901"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := u.GetByBarcode(ctx, "8901")
	if err != nil {
		t.Fatalf("GetByBarcode: %v", err)
	}
	if found.Product.ID != created.ID || found.Variant.Barcode != "8901" {
		t.Errorf("lookup = %+v", found)
	}
	if _, err := u.GetByBarcode(ctx, "0000"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("unknown barcode err = %v", err)
	}

	if err := u.Delete(ctx, f.actorID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.store.Products[created.ID].IsActive {
		t.Errorf("product still active")
	}
	if _, err := u.GetByBarcode(ctx, "8901"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("inactive barcode err = %v", err)
	}

	active, total, err := u.GetAll(ctx, dto.ProductListQuery{ActiveOnly: true, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 0 || len(active) != 0 {
		t.Errorf("active products = %d", total)
	}
	all, total, err := u.GetAll(ctx, dto.ProductListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if total != 1 || len(all) != 1 {
		t.Errorf("all products = %d", total)
	}
}
