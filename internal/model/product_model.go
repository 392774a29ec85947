package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SKU            string     `gorm:"type:varchar(100);uniqueIndex" json:"sku"`
	Name           string     `gorm:"type:varchar(255)" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	Price          float64    `gorm:"type:numeric(12,2)" json:"price"`
	Quantity       int        `json:"quantity"`
	CategoryID     *uuid.UUID `gorm:"type:uuid" json:"category_id,omitempty"`
	Category       *Category  `json:"category,omitempty"`
	BrandID        *uuid.UUID `gorm:"type:uuid" json:"brand_id,omitempty"`
	Brand          *Brand     `json:"brand,omitempty"`
	Tags           string     `gorm:"type:text" json:"tags"` // comma separated
	SearchKeywords string     `gorm:"type:text" json:"search_keywords"`

	// Embedding lifecycle fields. Written only by the sync engine.
	IsActive     bool       `gorm:"index" json:"is_active"`
	HasEmbedding bool       `json:"has_embedding"`
	LastEmbedded *time.Time `json:"last_embedded,omitempty"`
	VectorID     *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"vector_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) TableName() string {
	return "products"
}

// TagList splits the stored comma-separated tags into a clean slice.
func (p *Product) TagList() []string {
	if strings.TrimSpace(p.Tags) == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

func (p *Product) BrandName() string {
	if p.Brand == nil {
		return ""
	}
	return p.Brand.Name
}
