package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
	listErr  error
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*model.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID.String()] = &cp
	}
	return r
}

func (r *fakeProductRepo) get(id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Create(p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID.String()] = &cp
	return nil
}

func (r *fakeProductRepo) Update(p *model.Product) error {
	return r.Create(p)
}

func (r *fakeProductRepo) FindByID(id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("sku %s not found", sku)
}

func (r *fakeProductRepo) List(q repository.ProductQuery) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []model.Product
	for _, p := range r.products {
		if q.IsActive != nil && p.IsActive != *q.IsActive {
			continue
		}
		if q.HasStock != nil {
			if *q.HasStock && p.Quantity <= 0 {
				continue
			}
			if !*q.HasStock && p.Quantity > 0 {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) UpdateInventory(id string, quantity int) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	p.Quantity = quantity
	p.IsActive = quantity > 0
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) LowStock(threshold int) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Quantity > 0 && p.Quantity < threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) OutOfStock() ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Quantity <= 0 {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) MarkEmbedded(id string, vectorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s not found", id)
	}
	now := time.Now()
	p.HasEmbedding = true
	p.LastEmbedded = &now
	p.VectorID = &vectorID
	return nil
}

func (r *fakeProductRepo) MarkNotEmbedded(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %s not found", id)
	}
	p.HasEmbedding = false
	p.VectorID = nil
	return nil
}

type fakeVectorRepo struct {
	mu         sync.Mutex
	vectors    map[uuid.UUID]*model.ProductVector // keyed by product id
	matches    []repository.VectorMatch
	lastFilter repository.VectorFilter
	upsertErr  error
	queryErr   error
}

func newFakeVectorRepo() *fakeVectorRepo {
	return &fakeVectorRepo{vectors: make(map[uuid.UUID]*model.ProductVector)}
}

func (r *fakeVectorRepo) Upsert(v *model.ProductVector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	cp := *v
	r.vectors[v.ProductID] = &cp
	return nil
}

func (r *fakeVectorRepo) DeleteByProduct(productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vectors, productID)
	return nil
}

func (r *fakeVectorRepo) Query(_ pgvector.Vector, f repository.VectorFilter) ([]repository.VectorMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = f
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	out := r.matches
	if f.TopK > 0 && len(out) > f.TopK {
		out = out[:f.TopK]
	}
	return out, nil
}

func (r *fakeVectorRepo) has(productID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.vectors[productID]
	return ok
}

type fakeJobRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*model.EmbeddingJob
	updates int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[uuid.UUID]*model.EmbeddingJob)}
}

func (r *fakeJobRepo) Create(j *model.EmbeddingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) Update(j *model.EmbeddingJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindByID(id string) (*model.EmbeddingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID.String() == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("job %s not found", id)
}

func (r *fakeJobRepo) ListRecent(limit int) ([]model.EmbeddingJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.EmbeddingJob
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (r *fakeJobRepo) MarkStaleRunning(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for _, j := range r.jobs {
		if j.Status == model.JobStatusRunning && j.CreatedAt.Before(cutoff) {
			j.Status = model.JobStatusFailed
			j.ErrorMessage = "job stale: owning process terminated before completion"
			j.CompletedAt = &now
			n++
		}
	}
	return n, nil
}

type fakeTaxonomyRepo struct {
	categories []model.Category
	brands     []model.Brand
}

func (r *fakeTaxonomyRepo) ListCategories() ([]model.Category, error) { return r.categories, nil }
func (r *fakeTaxonomyRepo) ListBrands() ([]model.Brand, error)       { return r.brands, nil }
func (r *fakeTaxonomyRepo) CreateCategory(c *model.Category) error {
	r.categories = append(r.categories, *c)
	return nil
}
func (r *fakeTaxonomyRepo) CreateBrand(b *model.Brand) error {
	r.brands = append(r.brands, *b)
	return nil
}

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	err   error
	// failTexts makes embedding fail only for blobs containing a marker.
	failTexts string
}

func (e *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.failTexts != "" && containsAny(text, []string{e.failTexts}) {
		return nil, fmt.Errorf("embedding provider rejected text")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeChatService struct {
	mu       sync.Mutex
	reply    string
	err      error
	received [][]service.ChatMessage
}

func (s *fakeChatService) Complete(_ context.Context, messages []service.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]service.ChatMessage, len(messages))
	copy(cp, messages)
	s.received = append(s.received, cp)
	if s.err != nil {
		return "", s.err
	}
	if s.reply == "" {
		return "Happy to help!", nil
	}
	return s.reply, nil
}
