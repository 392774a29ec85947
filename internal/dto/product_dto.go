package dto

import "github.com/google/uuid"

type ProductCreateRequest struct {
	SKU            string     `json:"sku"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Price          float64    `json:"price"`
	Quantity       int        `json:"quantity"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	BrandID        *uuid.UUID `json:"brand_id,omitempty"`
	Tags           string     `json:"tags,omitempty"`
	SearchKeywords string     `json:"search_keywords,omitempty"`
}

type ProductUpdateRequest struct {
	Name           *string    `json:"name,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	BrandID        *uuid.UUID `json:"brand_id,omitempty"`
	Tags           *string    `json:"tags,omitempty"`
	SearchKeywords *string    `json:"search_keywords,omitempty"`
}

type InventoryUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

type TaxonomyCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
