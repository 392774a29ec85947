package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ProductVector is one row of the vector index. Filter metadata is
// denormalized from the product so similarity queries can carry equality and
// range predicates without joining the catalog.
type ProductVector struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"product_id"`
	Embedding pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	Name      string          `gorm:"type:varchar(255)" json:"name"`
	SKU       string          `gorm:"type:varchar(100)" json:"sku"`
	Category  string          `gorm:"type:varchar(100);index" json:"category"`
	Brand     string          `gorm:"type:varchar(100);index" json:"brand"`
	Price     float64         `gorm:"type:numeric(12,2)" json:"price"`
	Quantity  int             `json:"quantity"`
	IsActive  bool            `gorm:"index" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (v *ProductVector) TableName() string {
	return "product_vectors"
}
