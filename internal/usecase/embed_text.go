package usecase

import (
	"fmt"
	"strings"

	"github.com/shopsense-ai/shopsense/internal/model"
)

// BuildEmbeddingText maps a product to the text blob that gets embedded.
// Deterministic: the same product always yields the same text, so re-running
// a sync never produces a different vector for unchanged catalog data.
func BuildEmbeddingText(p *model.Product) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(p.Name))
	if desc := strings.TrimSpace(p.Description); desc != "" {
		b.WriteString(". ")
		b.WriteString(desc)
	}
	if cat := p.CategoryName(); cat != "" {
		b.WriteString(". Category: ")
		b.WriteString(cat)
	}
	if brand := p.BrandName(); brand != "" {
		b.WriteString(". Brand: ")
		b.WriteString(brand)
	}
	if tags := p.TagList(); len(tags) > 0 {
		b.WriteString(". Tags: ")
		b.WriteString(strings.Join(tags, ", "))
	}
	if kw := strings.TrimSpace(p.SearchKeywords); kw != "" {
		b.WriteString(". Keywords: ")
		b.WriteString(kw)
	}
	b.WriteString(fmt.Sprintf(". Price: %.2f", p.Price))

	return strings.TrimSpace(b.String())
}
