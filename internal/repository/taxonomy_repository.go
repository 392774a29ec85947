package repository

import (
	"github.com/shopsense-ai/shopsense/internal/model"
	"gorm.io/gorm"
)

type TaxonomyRepositoryInterface interface {
	ListCategories() ([]model.Category, error)
	ListBrands() ([]model.Brand, error)
	CreateCategory(c *model.Category) error
	CreateBrand(b *model.Brand) error
}

type TaxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db}
}

func (r *TaxonomyRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *TaxonomyRepository) ListBrands() ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *TaxonomyRepository) CreateCategory(c *model.Category) error {
	return r.db.Create(c).Error
}

func (r *TaxonomyRepository) CreateBrand(b *model.Brand) error {
	return r.db.Create(b).Error
}
