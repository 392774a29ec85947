package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopsense-ai/shopsense/internal/model"
	"gorm.io/gorm"
)

// ProductQuery narrows List results. Nil pointer fields mean "no filter".
type ProductQuery struct {
	IsActive *bool
	HasStock *bool
	Category string
	Brand    string
	Limit    int
	Offset   int
}

type ProductRepositoryInterface interface {
	Create(p *model.Product) error
	Update(p *model.Product) error
	FindByID(id string) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	List(q ProductQuery) ([]model.Product, int64, error)
	UpdateInventory(id string, quantity int) (*model.Product, error)
	LowStock(threshold int) ([]model.Product, error)
	OutOfStock() ([]model.Product, error)
	MarkEmbedded(id string, vectorID uuid.UUID) error
	MarkNotEmbedded(id string) error
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) Create(p *model.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *model.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) FindByID(id string) (*model.Product, error) {
	var p model.Product
	err := r.db.Preload("Category").Preload("Brand").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *ProductRepository) FindBySKU(sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.Preload("Category").Preload("Brand").First(&p, "sku = ?", sku).Error
	return &p, err
}

func (r *ProductRepository) List(q ProductQuery) ([]model.Product, int64, error) {
	tx := r.db.Model(&model.Product{})
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}
	if q.HasStock != nil {
		if *q.HasStock {
			tx = tx.Where("quantity > 0")
		} else {
			tx = tx.Where("quantity <= 0")
		}
	}
	if q.Category != "" {
		tx = tx.Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("LOWER(categories.name) = LOWER(?)", q.Category)
	}
	if q.Brand != "" {
		tx = tx.Joins("LEFT JOIN brands ON brands.id = products.brand_id").
			Where("LOWER(brands.name) = LOWER(?)", q.Brand)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var products []model.Product
	err := tx.Preload("Category").Preload("Brand").
		Order("products.created_at DESC").Find(&products).Error
	return products, total, err
}

// UpdateInventory writes the new quantity and keeps the is_active invariant
// (is_active == quantity > 0) in the same statement, then returns the fresh
// row. The embedding side-effect is NOT handled here; callers go through the
// sync engine for that.
func (r *ProductRepository) UpdateInventory(id string, quantity int) (*model.Product, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   quantity,
			"is_active":  quantity > 0,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return r.FindByID(id)
}

func (r *ProductRepository) LowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Preload("Brand").
		Where("quantity > 0 AND quantity < ?", threshold).
		Order("quantity ASC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) OutOfStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Preload("Brand").
		Where("quantity <= 0").Find(&products).Error
	return products, err
}

func (r *ProductRepository) MarkEmbedded(id string, vectorID uuid.UUID) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"has_embedding": true,
			"last_embedded": time.Now(),
			"vector_id":     vectorID,
		}).Error
}

func (r *ProductRepository) MarkNotEmbedded(id string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"has_embedding": false,
			"vector_id":     nil,
		}).Error
}
