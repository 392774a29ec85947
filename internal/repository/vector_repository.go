package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/shopsense-ai/shopsense/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VectorFilter is the metadata predicate attached to a similarity query.
// Nil pointer fields mean "no constraint".
type VectorFilter struct {
	IsActive    *bool
	MinQuantity *int
	Category    string
	Brand       string
	MinPrice    *float64
	MaxPrice    *float64
	TopK        int
}

// VectorMatch is one scored hit from the index. Score is cosine similarity
// mapped to [0,1] (1 - cosine distance).
type VectorMatch struct {
	VectorID  uuid.UUID `gorm:"column:vector_id" json:"vector_id"`
	ProductID uuid.UUID `gorm:"column:product_id" json:"product_id"`
	Name      string    `gorm:"column:name" json:"name"`
	SKU       string    `gorm:"column:sku" json:"sku"`
	Category  string    `gorm:"column:category" json:"category"`
	Brand     string    `gorm:"column:brand" json:"brand"`
	Price     float64   `gorm:"column:price" json:"price"`
	Quantity  int       `gorm:"column:quantity" json:"quantity"`
	Score     float64   `gorm:"column:score" json:"score"`
}

type VectorRepositoryInterface interface {
	Upsert(v *model.ProductVector) error
	DeleteByProduct(productID uuid.UUID) error
	Query(embedding pgvector.Vector, f VectorFilter) ([]VectorMatch, error)
}

type VectorRepository struct {
	db *gorm.DB
}

func NewVectorRepository(db *gorm.DB) *VectorRepository {
	return &VectorRepository{db}
}

// Upsert inserts or replaces the vector row for a product. Re-embedding an
// already-embedded product overwrites its row in place.
func (r *VectorRepository) Upsert(v *model.ProductVector) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		UpdateAll: true,
	}).Create(v).Error
}

// DeleteByProduct removes a product's vector row. Deleting a row that is
// already absent is a no-op, not an error.
func (r *VectorRepository) DeleteByProduct(productID uuid.UUID) error {
	return r.db.Where("product_id = ?", productID).
		Delete(&model.ProductVector{}).Error
}

func (r *VectorRepository) Query(embedding pgvector.Vector, f VectorFilter) ([]VectorMatch, error) {
	sql := `SELECT id AS vector_id, product_id, name, sku, category, brand, price, quantity,
		1 - (embedding <=> ?) AS score
		FROM product_vectors`
	args := []any{embedding}

	var conds []string
	if f.IsActive != nil {
		conds = append(conds, "is_active = ?")
		args = append(args, *f.IsActive)
	}
	if f.MinQuantity != nil {
		conds = append(conds, "quantity >= ?")
		args = append(args, *f.MinQuantity)
	}
	if f.Category != "" {
		conds = append(conds, "LOWER(category) = LOWER(?)")
		args = append(args, f.Category)
	}
	if f.Brand != "" {
		conds = append(conds, "LOWER(brand) = LOWER(?)")
		args = append(args, f.Brand)
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}

	topK := f.TopK
	if topK <= 0 {
		topK = 10
	}
	sql += " ORDER BY embedding <=> ? LIMIT ?"
	args = append(args, embedding, topK)

	var matches []VectorMatch
	err := r.db.Raw(sql, args...).Scan(&matches).Error
	return matches, err
}
