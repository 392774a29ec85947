package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/dto"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
)

// MaxSearchResults is the hard ceiling on results per query.
const MaxSearchResults = 20

const defaultSearchResults = 10

// Fewer results than this triggers query-refinement suggestions.
const minResultsBeforeSuggest = 3

const maxSuggestions = 5

var (
	maxPricePattern = regexp.MustCompile(`(?:under|below|less than|cheaper than|at most)\s*\$?\s*(\d+(?:\.\d+)?)`)
	minPricePattern = regexp.MustCompile(`(?:over|above|more than|at least)\s*\$?\s*(\d+(?:\.\d+)?)`)
)

// Filters is the caller-supplied narrowing of a search. Zero values mean "no
// constraint"; implicit filters inferred from the query text fill the gaps
// but never override an explicit value.
type Filters struct {
	Category        string
	Brand           string
	MinPrice        *float64
	MaxPrice        *float64
	InStockOnly     bool
	IncludeInactive bool
	MaxResults      int
}

// SearchUsecase embeds the query, merges explicit and inferred filters,
// queries the vector index, and ranks the hits. Read-only: no side effects.
type SearchUsecase struct {
	vectorRepo   repository.VectorRepositoryInterface
	taxonomyRepo repository.TaxonomyRepositoryInterface
	embedder     service.EmbeddingServiceInterface
	cfg          *config.AssistantConfig
}

func NewSearchUsecase(
	vectorRepo repository.VectorRepositoryInterface,
	taxonomyRepo repository.TaxonomyRepositoryInterface,
	embedder service.EmbeddingServiceInterface,
	cfg *config.AssistantConfig,
) *SearchUsecase {
	return &SearchUsecase{
		vectorRepo:   vectorRepo,
		taxonomyRepo: taxonomyRepo,
		embedder:     embedder,
		cfg:          cfg,
	}
}

func (uc *SearchUsecase) Search(ctx context.Context, query string, f Filters) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	maxResults := f.MaxResults
	if maxResults <= 0 {
		maxResults = defaultSearchResults
	}
	if maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}

	merged := uc.mergeInferredFilters(query, f)
	merged.MaxResults = maxResults

	embedding, err := uc.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vf := repository.VectorFilter{
		Category: merged.Category,
		Brand:    merged.Brand,
		MinPrice: merged.MinPrice,
		MaxPrice: merged.MaxPrice,
		TopK:     maxResults,
	}
	if !merged.IncludeInactive {
		// Baseline: only active, in-stock products are searchable.
		active := true
		minQty := 1
		vf.IsActive = &active
		vf.MinQuantity = &minQty
	}

	matches, err := uc.vectorRepo.Query(pgvector.NewVector(embedding), vf)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	results := make([]dto.SearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Score < uc.cfg.MinSimilarityScore {
			continue
		}
		if merged.InStockOnly && m.Quantity <= 0 {
			continue
		}
		score := m.Score
		if score > 1 {
			score = 1
		}
		if score < 0 {
			score = 0
		}
		results = append(results, dto.SearchResult{
			ProductID: m.ProductID,
			VectorID:  m.VectorID,
			Name:      m.Name,
			SKU:       m.SKU,
			Category:  m.Category,
			Brand:     m.Brand,
			Price:     m.Price,
			Quantity:  m.Quantity,
			Score:     score,
		})
		if len(results) == maxResults {
			break
		}
	}

	resp := &dto.SearchResponse{
		Results: results,
		Filters: dto.AppliedFilters{
			Category:    merged.Category,
			Brand:       merged.Brand,
			MinPrice:    merged.MinPrice,
			MaxPrice:    merged.MaxPrice,
			InStockOnly: merged.InStockOnly,
			MaxResults:  maxResults,
		},
	}
	if len(results) < minResultsBeforeSuggest {
		resp.Suggestions = uc.suggestions(query, merged)
	}
	return resp, nil
}

// mergeInferredFilters derives category, brand and price bounds from the free
// text and fills any filter the caller left empty. Explicit values always
// win.
func (uc *SearchUsecase) mergeInferredFilters(query string, f Filters) Filters {
	lower := strings.ToLower(query)

	if f.Category == "" {
		if categories, err := uc.taxonomyRepo.ListCategories(); err == nil {
			for _, c := range categories {
				if matchesName(lower, c.Name) {
					f.Category = c.Name
					break
				}
			}
		} else {
			log.Printf("infer category filter: %v", err)
		}
	}
	if f.Brand == "" {
		if brands, err := uc.taxonomyRepo.ListBrands(); err == nil {
			for _, b := range brands {
				if matchesName(lower, b.Name) {
					f.Brand = b.Name
					break
				}
			}
		} else {
			log.Printf("infer brand filter: %v", err)
		}
	}
	if f.MaxPrice == nil {
		if m := maxPricePattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				f.MaxPrice = &v
			}
		}
	}
	if f.MinPrice == nil {
		if m := minPricePattern.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				f.MinPrice = &v
			}
		}
	}
	return f
}

// matchesName reports whether a taxonomy name occurs in the query, tolerating
// a trailing "s" on either side ("laptop" matches category "Laptops").
func matchesName(lowerQuery, name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	if strings.Contains(lowerQuery, n) {
		return true
	}
	singular := strings.TrimSuffix(n, "s")
	return singular != n && strings.Contains(lowerQuery, singular)
}

// suggestions builds query-refinement variants from catalog metadata when a
// search comes back thin. Presentation sugar only.
func (uc *SearchUsecase) suggestions(query string, f Filters) []string {
	var out []string

	if f.Category == "" {
		if categories, err := uc.taxonomyRepo.ListCategories(); err == nil {
			for _, c := range categories {
				out = append(out, fmt.Sprintf("%s in %s", query, c.Name))
				if len(out) >= 2 {
					break
				}
			}
		}
	}
	if f.Brand == "" {
		if brands, err := uc.taxonomyRepo.ListBrands(); err == nil {
			for _, b := range brands {
				out = append(out, fmt.Sprintf("%s by %s", query, b.Name))
				if len(out) >= 4 {
					break
				}
			}
		}
	}
	if f.MaxPrice == nil && len(out) < maxSuggestions {
		out = append(out, fmt.Sprintf("%s under $50", query))
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
