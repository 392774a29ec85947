package dto

import "github.com/google/uuid"

type SearchRequest struct {
	Query           string   `json:"query"`
	Category        string   `json:"category,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	MinPrice        *float64 `json:"min_price,omitempty"`
	MaxPrice        *float64 `json:"max_price,omitempty"`
	InStockOnly     bool     `json:"in_stock_only,omitempty"`
	IncludeInactive bool     `json:"include_inactive,omitempty"`
	MaxResults      int      `json:"max_results,omitempty"`
}

// SearchResult is the per-query scored product projection. It is never
// persisted.
type SearchResult struct {
	ProductID uuid.UUID `json:"product_id"`
	VectorID  uuid.UUID `json:"vector_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Category  string    `json:"category,omitempty"`
	Brand     string    `json:"brand,omitempty"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Score     float64   `json:"score"`
}

// AppliedFilters echoes back the filters the orchestrator actually used,
// after merging explicit values with those inferred from the query text.
type AppliedFilters struct {
	Category    string   `json:"category,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	InStockOnly bool     `json:"in_stock_only"`
	MaxResults  int      `json:"max_results"`
}

type SearchResponse struct {
	Results     []SearchResult `json:"results"`
	Filters     AppliedFilters `json:"filters"`
	Suggestions []string       `json:"suggestions,omitempty"`
}
