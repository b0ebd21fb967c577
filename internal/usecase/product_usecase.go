package usecase

import (
	"context"
	"errors"

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
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant does not belong to this product")
	ErrBarcodeExists     = errors.New("barcode already exists")
	ErrDuplicateBarcode  = errors.New("barcode is repeated within the product")
	ErrInvalidStockLevel = errors.New("stock must not be negative")
)

type ProductUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error)
	GetAll(ctx context.Context, query dto.ProductListQuery) ([]dto.ProductResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.BarcodeLookupResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

type productUsecase struct {
	transactor   database.Transactor
	log          *logrus.Logger
	productRepo  repository.ProductRepository
	auditService service.AuditService
}

func NewProductUsecase(
	transactor database.Transactor,
	log *logrus.Logger,
	productRepo repository.ProductRepository,
	auditService service.AuditService,
) ProductUsecase {
	return &productUsecase{
		transactor:   transactor,
		log:          log,
		productRepo:  productRepo,
		auditService: auditService,
	}
}

func (u *productUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{IsActive: true}
	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}

	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.productRepo.Create(tx, product); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionProductCreate, "product", product.ID.String(), converter.ProductToResponse(product))
	})
	if err != nil {
		if isDuplicateKeyError(err, "barcode") {
			return nil, ErrBarcodeExists
		}
		u.log.Warnf("Failed to create product: %+v", err)
		return nil, err
	}

	u.log.Infof("Product %s created with %d variants", product.ID, len(product.Variants))
	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) GetAll(ctx context.Context, query dto.ProductListQuery) ([]dto.ProductResponse, int64, error) {
	filter := entity.ProductFilter{
		Search:     query.Search,
		Category:   query.Category,
		ActiveOnly: query.ActiveOnly,
		Limit:      query.Limit,
		Offset:     (query.Page - 1) * query.Limit,
	}

	products, total, err := u.productRepo.FindAll(u.transactor.Conn(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find products: %+v", err)
		return nil, 0, err
	}
	return converter.ProductsToResponses(products), total, nil
}

func (u *productUsecase) find(db *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	product, err := u.productRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find product: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (u *productUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	product, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.ProductToResponse(product), nil
}

// GetByBarcode resolves a scanned barcode. Deactivated products are not
// sold, so they are reported as missing.
func (u *productUsecase) GetByBarcode(ctx context.Context, barcode string) (*dto.BarcodeLookupResponse, error) {
	product, variant, err := u.productRepo.FindByBarcode(u.transactor.Conn(ctx), barcode)
	if err != nil {
		u.log.Warnf("Failed to find barcode %s: %+v", barcode, err)
		return nil, err
	}
	if product == nil || variant == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	return &dto.BarcodeLookupResponse{
		Product: *converter.ProductToResponse(product),
		Variant: *converter.VariantToResponse(variant),
	}, nil
}

// Update overwrites the product and its variants, stock included: the
// stock values in the request become the new on-hand counts. The product
// is read under a row lock so the edit applies to its latest state.
// Variants left out of the request are retired, not deleted.
func (u *productUsecase) Update(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req *dto.ProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		if product, err = u.findForUpdate(tx, id); err != nil {
			return err
		}
		old := converter.ProductToResponse(product)

		if err := applyProductRequest(product, req); err != nil {
			return err
		}
		if err := u.productRepo.Update(tx, product); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionProductUpdate, "product", product.ID.String(), old, converter.ProductToResponse(product))
	})
	if err != nil {
		if isDuplicateKeyError(err, "barcode") {
			return nil, ErrBarcodeExists
		}
		if !isProductRequestError(err) {
			u.log.Warnf("Failed to update product: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Product %s updated", product.ID)
	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) findForUpdate(tx *gorm.DB, id uuid.UUID) (*entity.Product, error) {
	product, err := u.productRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func isProductRequestError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrVariantNotFound) ||
		errors.Is(err, ErrDuplicateBarcode) ||
		errors.Is(err, ErrInvalidStockLevel)
}

// Delete deactivates the product. Bills keep pointing at it.
func (u *productUsecase) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	product, err := u.find(u.transactor.Conn(ctx), id)
	if err != nil {
		return err
	}

	err = u.transactor.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.productRepo.Deactivate(tx, product.ID); err != nil {
			return err
		}
		return u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionProductDelete, "product", product.ID.String(), converter.ProductToResponse(product))
	})
	if err != nil {
		u.log.Warnf("Failed to deactivate product: %+v", err)
		return err
	}

	u.log.Infof("Product %s deactivated", product.ID)
	return nil
}

// applyProductRequest copies the request onto the product. Variants with an
// id must already belong to the product; the rest are added.
func applyProductRequest(product *entity.Product, req *dto.ProductRequest) error {
	if req.Stock < 0 {
		return ErrInvalidStockLevel
	}

	existing := make(map[uuid.UUID]entity.ProductVariant, len(product.Variants))
	for _, v := range product.Variants {
		existing[v.ID] = v
	}

	seen := make(map[string]bool, len(req.Variants))
	variants := make([]entity.ProductVariant, 0, len(req.Variants))
	for _, v := range req.Variants {
		if seen[v.Barcode] {
			return ErrDuplicateBarcode
		}
		seen[v.Barcode] = true

		if v.Stock < 0 {
			return ErrInvalidStockLevel
		}

		variant := entity.ProductVariant{IsActive: true}
		if v.ID != nil {
			current, ok := existing[*v.ID]
			if !ok {
				return ErrVariantNotFound
			}
			variant = current
		}
		variant.Size = v.Size
		variant.Color = v.Color
		variant.Barcode = v.Barcode
		variant.Stock = v.Stock
		variant.BuyingPrice = v.BuyingPrice
		variant.SellingPrice = v.SellingPrice
		variants = append(variants, variant)
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Brand = req.Brand
	product.Description = req.Description
	product.Discount = req.Discount
	product.Stock = req.Stock
	product.Variants = variants
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	return nil
}
