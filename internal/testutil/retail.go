package testutil

import (
	"sort"
	"strings"

	"hospital-frontdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepo struct{ S *Store }

func (r ProductRepo) Create(db *gorm.DB, product *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, v := range product.Variants {
		if r.barcodeTaken(v.Barcode, v.ID) {
			return uniqueViolation("uq_product_variants_barcode")
		}
	}
	product.ID = newID(product.ID)
	product.CreatedAt = r.S.stamp()
	for i := range product.Variants {
		product.Variants[i].ID = newID(product.Variants[i].ID)
		product.Variants[i].ProductID = product.ID
		r.S.Variants[product.Variants[i].ID] = product.Variants[i]
	}
	stored := *product
	stored.Variants = nil
	r.S.Products[product.ID] = stored
	return nil
}

func (r ProductRepo) barcodeTaken(barcode string, except uuid.UUID) bool {
	for id, v := range r.S.Variants {
		if id != except && v.IsActive && v.Barcode == barcode {
			return true
		}
	}
	return false
}

func (r ProductRepo) load(p entity.Product) entity.Product {
	p.Variants = nil
	for _, v := range r.S.Variants {
		if v.ProductID == p.ID && v.IsActive {
			p.Variants = append(p.Variants, v)
		}
	}
	sort.Slice(p.Variants, func(i, j int) bool { return p.Variants[i].Barcode < p.Variants[j].Barcode })
	return p
}

func (r ProductRepo) FindAll(db *gorm.DB, filter entity.ProductFilter) ([]entity.Product, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	search := strings.ToLower(filter.Search)
	var products []entity.Product
	for _, p := range r.S.Products {
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		products = append(products, r.load(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return page(products, filter.Limit, filter.Offset), int64(len(products)), nil
}

func (r ProductRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.Products[id]
	if !ok {
		return nil, nil
	}
	p = r.load(p)
	return &p, nil
}

// FindByIDForUpdate relies on the Transactor running one transaction at a time.
func (r ProductRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	return r.FindByID(db, id)
}

func (r ProductRepo) FindByBarcode(db *gorm.DB, barcode string) (*entity.Product, *entity.ProductVariant, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, v := range r.S.Variants {
		if v.Barcode != barcode || !v.IsActive {
			continue
		}
		p, ok := r.S.Products[v.ProductID]
		if !ok {
			return nil, nil, nil
		}
		p = r.load(p)
		return &p, &v, nil
	}
	return nil, nil, nil
}

// Update retires dropped variants before checking barcodes, so a new variant
// may reuse the barcode of one it replaces.
func (r ProductRepo) Update(db *gorm.DB, product *entity.Product) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	keep := make(map[uuid.UUID]bool, len(product.Variants))
	for _, v := range product.Variants {
		keep[v.ID] = true
	}
	for id, v := range r.S.Variants {
		if v.ProductID == product.ID && v.IsActive && !keep[id] {
			v.IsActive = false
			r.S.Variants[id] = v
		}
	}
	for _, v := range product.Variants {
		if r.barcodeTaken(v.Barcode, v.ID) {
			return uniqueViolation("uq_product_variants_barcode")
		}
	}
	for i := range product.Variants {
		product.Variants[i].ID = newID(product.Variants[i].ID)
		product.Variants[i].ProductID = product.ID
		r.S.Variants[product.Variants[i].ID] = product.Variants[i]
	}
	stored := *product
	stored.Variants = nil
	r.S.Products[product.ID] = stored
	return nil
}

func (r ProductRepo) Deactivate(db *gorm.DB, id uuid.UUID) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Products[id]; ok {
		p.IsActive = false
		r.S.Products[id] = p
	}
	return nil
}

type StockRepo struct{ S *Store }

func (r StockRepo) fail() bool {
	r.S.stockCalls++
	return r.S.FailStockAt > 0 && r.S.stockCalls == r.S.FailStockAt
}

func (r StockRepo) AdjustVariantStock(db *gorm.DB, productID, variantID uuid.UUID, delta int) (int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.fail() {
		return 0, ErrInjected
	}
	v, ok := r.S.Variants[variantID]
	if !ok || v.ProductID != productID {
		return 0, nil
	}
	v.Stock += delta
	r.S.Variants[variantID] = v
	return 1, nil
}

func (r StockRepo) AdjustProductStock(db *gorm.DB, productID uuid.UUID, delta int) (int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.fail() {
		return 0, ErrInjected
	}
	p, ok := r.S.Products[productID]
	if !ok {
		return 0, nil
	}
	p.Stock += delta
	r.S.Products[productID] = p
	return 1, nil
}

func (r StockRepo) CreateMovements(db *gorm.DB, movements []entity.StockMovement) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for i := range movements {
		movements[i].ID = int64(len(r.S.Movements) + 1)
		movements[i].CreatedAt = r.S.stamp()
		r.S.Movements = append(r.S.Movements, movements[i])
	}
	return nil
}

type BillRepo struct{ S *Store }

func (r BillRepo) storeItems(bill *entity.Bill) {
	items := make([]entity.BillItem, len(bill.Items))
	for i := range bill.Items {
		bill.Items[i].ID = uuid.New()
		bill.Items[i].BillID = bill.ID
		items[i] = bill.Items[i]
	}
	r.S.BillItems[bill.ID] = items
}

func (r BillRepo) checkItems(items []entity.BillItem) error {
	for _, item := range items {
		if _, ok := r.S.Products[item.ProductID]; !ok {
			return foreignKeyViolation("bill_items_product_id_fkey")
		}
		if item.VariantID != nil {
			if _, ok := r.S.Variants[*item.VariantID]; !ok {
				return foreignKeyViolation("bill_items_variant_id_fkey")
			}
		}
	}
	return nil
}

func (r BillRepo) Create(db *gorm.DB, bill *entity.Bill) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.checkItems(bill.Items); err != nil {
		return err
	}
	for _, b := range r.S.Bills {
		if b.BillNo == bill.BillNo {
			return uniqueViolation("uq_bills_bill_no")
		}
	}
	bill.ID = newID(bill.ID)
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = r.S.stamp()
	}
	bill.UpdatedAt = bill.CreatedAt
	r.storeItems(bill)
	stored := *bill
	stored.Items = nil
	stored.Creator = nil
	r.S.Bills[bill.ID] = stored
	return nil
}

func (r BillRepo) load(b entity.Bill) entity.Bill {
	b.Items = append([]entity.BillItem(nil), r.S.BillItems[b.ID]...)
	if b.CreatedBy != nil {
		if u, ok := r.S.Users[*b.CreatedBy]; ok {
			b.Creator = &u
		}
	}
	return b
}

func (r BillRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	b, ok := r.S.Bills[id]
	if !ok {
		return nil, nil
	}
	b = r.load(b)
	return &b, nil
}

func (r BillRepo) FindAll(db *gorm.DB, filter entity.BillFilter) ([]entity.Bill, int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var bills []entity.Bill
	for _, b := range r.S.Bills {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !inOptionalRange(b.CreatedAt, filter.From, filter.To) {
			continue
		}
		bills = append(bills, r.load(b))
	}
	sort.Slice(bills, func(i, j int) bool { return bills[i].CreatedAt.After(bills[j].CreatedAt) })
	return page(bills, filter.Limit, filter.Offset), int64(len(bills)), nil
}

func (r BillRepo) Update(db *gorm.DB, bill *entity.Bill) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if err := r.checkItems(bill.Items); err != nil {
		return err
	}
	bill.UpdatedAt = r.S.stamp()
	r.storeItems(bill)
	stored := *bill
	stored.Items = nil
	stored.Creator = nil
	r.S.Bills[bill.ID] = stored
	return nil
}

// FindByIDForUpdate relies on the Transactor running one transaction at a time.
func (r BillRepo) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Bill, error) {
	return r.FindByID(db, id)
}

func (r BillRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Bills[id]; !ok {
		return 0, nil
	}
	delete(r.S.Bills, id)
	delete(r.S.BillItems, id)
	return 1, nil
}

func (r BillRepo) SumCommitted(db *gorm.DB, dr entity.DateRange) (entity.RevenueTotal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	row := entity.RevenueTotal{Total: decimal.Zero}
	for _, b := range r.S.Bills {
		if b.Status.IsStockCommitted() && inRange(b.CreatedAt, dr.From, dr.To) {
			row.Count++
			row.Total = row.Total.Add(b.TotalAmount)
		}
	}
	return row, nil
}
