package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/shopsense-ai/shopsense/internal/repository"
	"github.com/shopsense-ai/shopsense/internal/service"
)

// EmbeddingAction is the outcome of reconciling a product's catalog state
// with its vector-index state.
type EmbeddingAction int

const (
	ActionNone EmbeddingAction = iota
	ActionAdd
	ActionRefresh
	ActionRemove
)

func (a EmbeddingAction) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRefresh:
		return "refresh"
	case ActionRemove:
		return "remove"
	default:
		return "none"
	}
}

// SyncUsecase keeps the vector index consistent with the catalog: per-product
// reconciliation on inventory updates, and the bulk re-embedding job.
type SyncUsecase struct {
	productRepo repository.ProductRepositoryInterface
	vectorRepo  repository.VectorRepositoryInterface
	jobRepo     repository.JobRepositoryInterface
	embedder    service.EmbeddingServiceInterface
	cfg         *config.AssistantConfig
}

func NewSyncUsecase(
	productRepo repository.ProductRepositoryInterface,
	vectorRepo repository.VectorRepositoryInterface,
	jobRepo repository.JobRepositoryInterface,
	embedder service.EmbeddingServiceInterface,
	cfg *config.AssistantConfig,
) *SyncUsecase {
	return &SyncUsecase{
		productRepo: productRepo,
		vectorRepo:  vectorRepo,
		jobRepo:     jobRepo,
		embedder:    embedder,
		cfg:         cfg,
	}
}

// DecideAction maps a quantity transition to an embedding action. Becoming
// unavailable (out of stock, or below the low-stock threshold) always wins
// over becoming active: a product that flickers active-but-low in a single
// update is conservatively pulled from search.
func DecideAction(prevQty, newQty int, hasEmbedding bool, lowStockThreshold int) EmbeddingAction {
	wasActive := prevQty > 0
	isActive := newQty > 0
	isLow := newQty < lowStockThreshold

	switch {
	case !isActive || isLow:
		if hasEmbedding {
			return ActionRemove
		}
		return ActionNone
	case !wasActive && isActive:
		return ActionAdd
	case hasEmbedding:
		return ActionRefresh
	default:
		return ActionNone
	}
}

// ApplyInventoryUpdate commits the quantity change first, then reconciles the
// embedding state best-effort. Embedding failures are logged, never surfaced
// as a failure of the inventory update: the next reconciliation or bulk job
// corrects any drift.
func (uc *SyncUsecase) ApplyInventoryUpdate(ctx context.Context, id string, quantity int) (*model.Product, EmbeddingAction, error) {
	prev, err := uc.productRepo.FindByID(id)
	if err != nil {
		return nil, ActionNone, err
	}

	updated, err := uc.productRepo.UpdateInventory(id, quantity)
	if err != nil {
		return nil, ActionNone, err
	}

	action := DecideAction(prev.Quantity, quantity, updated.HasEmbedding, uc.cfg.LowStockThreshold)
	if err := uc.applyAction(ctx, updated, action); err != nil {
		log.Printf("embedding sync for product %s (action %s) failed: %v", updated.ID, action, err)
	}

	return updated, action, nil
}

// SyncProduct re-runs reconciliation for a product against its current
// quantity. Used after catalog edits that change the embedded text.
func (uc *SyncUsecase) SyncProduct(ctx context.Context, id string) (EmbeddingAction, error) {
	p, err := uc.productRepo.FindByID(id)
	if err != nil {
		return ActionNone, err
	}
	action := DecideAction(p.Quantity, p.Quantity, p.HasEmbedding, uc.cfg.LowStockThreshold)
	if action == ActionNone && p.IsActive && p.Quantity >= uc.cfg.LowStockThreshold {
		// Fresh catalog entries have no embedding yet but should be
		// searchable.
		action = ActionAdd
	}
	return action, uc.applyAction(ctx, p, action)
}

func (uc *SyncUsecase) applyAction(ctx context.Context, p *model.Product, action EmbeddingAction) error {
	switch action {
	case ActionAdd, ActionRefresh:
		return uc.embedAndUpsert(ctx, p)
	case ActionRemove:
		if err := uc.vectorRepo.DeleteByProduct(p.ID); err != nil {
			return fmt.Errorf("delete vector: %w", err)
		}
		if err := uc.productRepo.MarkNotEmbedded(p.ID.String()); err != nil {
			return fmt.Errorf("mark not embedded: %w", err)
		}
		return nil
	default:
		return nil
	}
}

func (uc *SyncUsecase) embedAndUpsert(ctx context.Context, p *model.Product) error {
	text := BuildEmbeddingText(p)
	if len(text) < uc.cfg.MinEmbeddingTextLength {
		return fmt.Errorf("embedding text too short (%d chars) for product %s", len(text), p.ID)
	}

	embedding, err := uc.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("generate embedding: %w", err)
	}

	vectorID := uuid.New()
	if p.VectorID != nil {
		vectorID = *p.VectorID
	}

	now := time.Now()
	v := &model.ProductVector{
		ID:        vectorID,
		ProductID: p.ID,
		Embedding: pgvector.NewVector(embedding),
		Name:      p.Name,
		SKU:       p.SKU,
		Category:  p.CategoryName(),
		Brand:     p.BrandName(),
		Price:     p.Price,
		Quantity:  p.Quantity,
		IsActive:  p.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.vectorRepo.Upsert(v); err != nil {
		return fmt.Errorf("upsert vector: %w", err)
	}
	if err := uc.productRepo.MarkEmbedded(p.ID.String(), vectorID); err != nil {
		return fmt.Errorf("mark embedded: %w", err)
	}
	return nil
}

// StartBulkSync creates the job record and runs the bulk pass on its own
// goroutine, so HTTP callers get the job id back immediately.
func (uc *SyncUsecase) StartBulkSync() (*model.EmbeddingJob, error) {
	job := newBulkJob()
	if err := uc.jobRepo.Create(job); err != nil {
		return nil, err
	}
	go func() {
		if err := uc.runBulk(context.Background(), job); err != nil {
			log.Printf("bulk sync job %s failed: %v", job.ID, err)
		}
	}()
	return job, nil
}

// RunBulkSync is the synchronous form, used by the seeder and by tests.
func (uc *SyncUsecase) RunBulkSync(ctx context.Context) (*model.EmbeddingJob, error) {
	job := newBulkJob()
	if err := uc.jobRepo.Create(job); err != nil {
		return nil, err
	}
	err := uc.runBulk(ctx, job)
	return job, err
}

func newBulkJob() *model.EmbeddingJob {
	return &model.EmbeddingJob{
		ID:        uuid.New(),
		Status:    model.JobStatusPending,
		JobType:   model.JobTypeBulk,
		CreatedAt: time.Now(),
	}
}

// runBulk rebuilds the whole index: every active in-stock product gets a
// fresh vector, every inactive product still holding one loses it. Items are
// processed strictly sequentially, in batches with a fixed inter-batch delay,
// to stay inside the embedding provider's rate limits. A per-item failure is
// counted, never raised; only an error outside the per-item boundary fails
// the job.
func (uc *SyncUsecase) runBulk(ctx context.Context, job *model.EmbeddingJob) error {
	job.Status = model.JobStatusRunning
	if err := uc.jobRepo.Update(job); err != nil {
		return uc.failJob(job, fmt.Errorf("mark job running: %w", err))
	}

	active := true
	hasStock := true
	toEmbed, _, err := uc.productRepo.List(repository.ProductQuery{
		IsActive: &active,
		HasStock: &hasStock,
	})
	if err != nil {
		return uc.failJob(job, fmt.Errorf("list active products: %w", err))
	}

	inactiveProducts, err := uc.productRepo.OutOfStock()
	if err != nil {
		return uc.failJob(job, fmt.Errorf("list out-of-stock products: %w", err))
	}
	var toRemove []model.Product
	for _, p := range inactiveProducts {
		if p.HasEmbedding || p.VectorID != nil {
			toRemove = append(toRemove, p)
		}
	}

	job.TotalItems = len(toEmbed) + len(toRemove)
	if err := uc.jobRepo.Update(job); err != nil {
		return uc.failJob(job, fmt.Errorf("record job total: %w", err))
	}

	var processed, successful, failed, skipped int

	progressEvery := uc.cfg.JobProgressEvery
	if progressEvery <= 0 {
		progressEvery = 10
	}
	flush := func() {
		if processed%progressEvery != 0 {
			return
		}
		job.ProcessedItems = processed
		job.SuccessfulItems = successful
		job.FailedItems = failed
		job.SkippedItems = skipped
		if err := uc.jobRepo.Update(job); err != nil {
			log.Printf("persist job %s progress: %v", job.ID, err)
		}
	}

	batchSize := uc.cfg.BulkBatchSize
	if batchSize <= 0 {
		batchSize = 25
	}

	for start := 0; start < len(toEmbed); start += batchSize {
		end := start + batchSize
		if end > len(toEmbed) {
			end = len(toEmbed)
		}
		for i := start; i < end; i++ {
			processed++
			outcome := uc.bulkEmbedItem(ctx, toEmbed[i].ID.String())
			switch outcome {
			case bulkSkipped:
				skipped++
			case bulkFailed:
				failed++
			default:
				successful++
			}
			flush()
		}
		if end < len(toEmbed) {
			time.Sleep(uc.cfg.BulkBatchDelay)
		}
	}

	for start := 0; start < len(toRemove); start += batchSize {
		end := start + batchSize
		if end > len(toRemove) {
			end = len(toRemove)
		}
		for i := start; i < end; i++ {
			processed++
			p := toRemove[i]
			if err := uc.applyAction(ctx, &p, ActionRemove); err != nil {
				log.Printf("bulk remove for product %s: %v", p.ID, err)
				failed++
			} else {
				successful++
			}
			flush()
		}
		if end < len(toRemove) {
			time.Sleep(uc.cfg.BulkBatchDelay)
		}
	}

	now := time.Now()
	job.Status = model.JobStatusCompleted
	job.ProcessedItems = processed
	job.SuccessfulItems = successful
	job.FailedItems = failed
	job.SkippedItems = skipped
	job.CompletedAt = &now
	return uc.jobRepo.Update(job)
}

type bulkOutcome int

const (
	bulkSuccessful bulkOutcome = iota
	bulkFailed
	bulkSkipped
)

// bulkEmbedItem re-reads the product before embedding it: there is no
// snapshot isolation, so an item can go out of stock between partitioning
// and processing.
func (uc *SyncUsecase) bulkEmbedItem(ctx context.Context, id string) bulkOutcome {
	p, err := uc.productRepo.FindByID(id)
	if err != nil {
		log.Printf("bulk embed: product %s vanished mid-run: %v", id, err)
		return bulkSkipped
	}
	if !p.IsActive || p.Quantity <= 0 {
		return bulkSkipped
	}
	if len(BuildEmbeddingText(p)) < uc.cfg.MinEmbeddingTextLength {
		return bulkSkipped
	}
	if err := uc.embedAndUpsert(ctx, p); err != nil {
		log.Printf("bulk embed for product %s: %v", p.ID, err)
		return bulkFailed
	}
	return bulkSuccessful
}

func (uc *SyncUsecase) failJob(job *model.EmbeddingJob, cause error) error {
	now := time.Now()
	job.Status = model.JobStatusFailed
	job.ErrorMessage = cause.Error()
	job.CompletedAt = &now
	if err := uc.jobRepo.Update(job); err != nil {
		log.Printf("persist failed job %s: %v", job.ID, err)
	}
	return cause
}

// SweepStaleJobs fails running jobs older than the configured cutoff. Run at
// startup so a crash mid-bulk does not leave a job in running state forever.
func (uc *SyncUsecase) SweepStaleJobs() (int64, error) {
	return uc.jobRepo.MarkStaleRunning(time.Now().Add(-uc.cfg.StaleJobCutoff))
}

func (uc *SyncUsecase) JobByID(id string) (*model.EmbeddingJob, error) {
	return uc.jobRepo.FindByID(id)
}

func (uc *SyncUsecase) RecentJobs(limit int) ([]model.EmbeddingJob, error) {
	return uc.jobRepo.ListRecent(limit)
}
