package repository

import (
	"errors"

	"hospital-frontdesk/internal/domain/entity"
	domainRepo "hospital-frontdesk/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct{}

func NewProductRepository() domainRepo.ProductRepository {
	return &productRepository{}
}

func (r *productRepository) Create(db *gorm.DB, product *entity.Product) error {
	return db.Create(product).Error
}

func (r *productRepository) FindAll(db *gorm.DB, filter entity.ProductFilter) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := db.Model(&entity.Product{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Variants", activeVariants).
		Scopes(paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func activeVariants(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func (r *productRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := db.Preload("Variants", activeVariants).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row and its active variants, so
// stock adjustments from bills wait for the edit to commit.
func (r *productRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	err = db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(activeVariants).
		Where("product_id = ?", id).
		Order("created_at").
		Find(&product.Variants).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByBarcode(db *gorm.DB, barcode string) (*entity.Product, *entity.ProductVariant, error) {
	var variant entity.ProductVariant
	err := db.Scopes(activeVariants).Where("barcode = ?", barcode).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	product, err := r.FindByID(db, variant.ProductID)
	if err != nil || product == nil {
		return nil, nil, err
	}
	return product, &variant, nil
}

// Update retires dropped variants first, so a new variant may take over the
// barcode of one it replaces.
func (r *productRepository) Update(db *gorm.DB, product *entity.Product) error {
	if err := db.Omit("Variants").Save(product).Error; err != nil {
		return err
	}

	keep := make([]uuid.UUID, 0, len(product.Variants))
	for _, variant := range product.Variants {
		if variant.ID != uuid.Nil {
			keep = append(keep, variant.ID)
		}
	}

	// Variants left out are retired, not deleted: bill_items still point at them
	query := db.Model(&entity.ProductVariant{}).Where("product_id = ? AND is_active = ?", product.ID, true)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Update("is_active", false).Error; err != nil {
		return err
	}

	for i := range product.Variants {
		variant := &product.Variants[i]
		variant.ProductID = product.ID
		if variant.ID == uuid.Nil {
			if err := db.Create(variant).Error; err != nil {
				return err
			}
		} else if err := db.Save(variant).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepository) Deactivate(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Product{}).Where("id = ?", id).Update("is_active", false).Error
}

type stockRepository struct{}

func NewStockRepository() domainRepo.StockRepository {
	return &stockRepository{}
}

func (r *stockRepository) AdjustVariantStock(db *gorm.DB, productID, variantID uuid.UUID, delta int) (int64, error) {
	result := db.Model(&entity.ProductVariant{}).
		Where("id = ? AND product_id = ?", variantID, productID).
		Update("stock", gorm.Expr("stock + ?", delta))
	return result.RowsAffected, result.Error
}

func (r *stockRepository) AdjustProductStock(db *gorm.DB, productID uuid.UUID, delta int) (int64, error) {
	result := db.Model(&entity.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", delta))
	return result.RowsAffected, result.Error
}

func (r *stockRepository) CreateMovements(db *gorm.DB, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return db.Create(&movements).Error
}
