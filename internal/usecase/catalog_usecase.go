package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/shopsense-ai/shopsense/internal/repository"
)

// CatalogUsecase is the thin CRUD layer over the product catalog. Writes that
// change searchable content hand off to the sync engine best-effort.
type CatalogUsecase struct {
	productRepo  repository.ProductRepositoryInterface
	taxonomyRepo repository.TaxonomyRepositoryInterface
	sync         *SyncUsecase
	cfg          *config.AssistantConfig
}

func NewCatalogUsecase(
	productRepo repository.ProductRepositoryInterface,
	taxonomyRepo repository.TaxonomyRepositoryInterface,
	sync *SyncUsecase,
	cfg *config.AssistantConfig,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo:  productRepo,
		taxonomyRepo: taxonomyRepo,
		sync:         sync,
		cfg:          cfg,
	}
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, req dto.ProductCreateRequest) (*model.Product, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		return nil, fmt.Errorf("sku is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0")
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity must be >= 0")
	}

	p := &model.Product{
		ID:             uuid.New(),
		SKU:            sku,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		CategoryID:     req.CategoryID,
		BrandID:        req.BrandID,
		Tags:           req.Tags,
		SearchKeywords: req.SearchKeywords,
		IsActive:       req.Quantity > 0,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}

	// Initial embedding is best-effort: a provider outage must not fail
	// catalog ingestion.
	if _, err := uc.sync.SyncProduct(ctx, p.ID.String()); err != nil {
		log.Printf("initial embedding for product %s failed: %v", p.ID, err)
	}

	return uc.productRepo.FindByID(p.ID.String())
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id string, req dto.ProductUpdateRequest) (*model.Product, error) {
	p, err := uc.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price must be >= 0")
		}
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.BrandID != nil {
		p.BrandID = req.BrandID
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.SearchKeywords != nil {
		p.SearchKeywords = *req.SearchKeywords
	}

	if err := uc.productRepo.Update(p); err != nil {
		return nil, err
	}

	// The embedded text may have changed; refresh best-effort.
	if _, err := uc.sync.SyncProduct(ctx, id); err != nil {
		log.Printf("re-embedding product %s after update failed: %v", id, err)
	}

	return uc.productRepo.FindByID(id)
}

func (uc *CatalogUsecase) GetProduct(id string) (*model.Product, error) {
	return uc.productRepo.FindByID(id)
}

func (uc *CatalogUsecase) GetProductBySKU(sku string) (*model.Product, error) {
	return uc.productRepo.FindBySKU(strings.ToUpper(strings.TrimSpace(sku)))
}

func (uc *CatalogUsecase) ListProducts(q repository.ProductQuery) ([]model.Product, int64, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return uc.productRepo.List(q)
}

func (uc *CatalogUsecase) LowStock(threshold int) ([]model.Product, error) {
	if threshold <= 0 {
		threshold = uc.cfg.LowStockThreshold
	}
	return uc.productRepo.LowStock(threshold)
}

func (uc *CatalogUsecase) OutOfStock() ([]model.Product, error) {
	return uc.productRepo.OutOfStock()
}

func (uc *CatalogUsecase) ListCategories() ([]model.Category, error) {
	return uc.taxonomyRepo.ListCategories()
}

func (uc *CatalogUsecase) ListBrands() ([]model.Brand, error) {
	return uc.taxonomyRepo.ListBrands()
}

func (uc *CatalogUsecase) CreateCategory(req dto.TaxonomyCreateRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	c := &model.Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	return c, uc.taxonomyRepo.CreateCategory(c)
}

func (uc *CatalogUsecase) CreateBrand(req dto.TaxonomyCreateRequest) (*model.Brand, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	b := &model.Brand{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	return b, uc.taxonomyRepo.CreateBrand(b)
}
