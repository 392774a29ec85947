package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopsense-ai/shopsense/internal/config"
	"github.com/shopsense-ai/shopsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.AssistantConfig {
	return &config.AssistantConfig{
		LowStockThreshold:      5,
		MinSimilarityScore:     0.65,
		MinEmbeddingTextLength: 25,
		BulkBatchSize:          2,
		BulkBatchDelay:         0,
		JobProgressEvery:       2,
		MaxTranscriptTurns:     2,
		StaleJobCutoff:         30 * time.Minute,
	}
}

func activeProduct(name string, quantity int) *model.Product {
	return &model.Product{
		ID:          uuid.New(),
		SKU:         "SKU-" + uuid.NewString()[:8],
		Name:        name,
		Description: "A reliable product that customers keep coming back for.",
		Price:       19.99,
		Quantity:    quantity,
		IsActive:    quantity > 0,
	}
}

func TestDecideAction(t *testing.T) {
	const threshold = 5

	tests := []struct {
		name         string
		prev, next   int
		hasEmbedding bool
		want         EmbeddingAction
	}{
		{"inactive to healthy stock adds", 0, 10, false, ActionAdd},
		{"inactive to low stock never adds", 0, 3, false, ActionNone},
		{"inactive to low stock with stale vector removes", 0, 3, true, ActionRemove},
		{"went out of stock removes vector", 10, 0, true, ActionRemove},
		{"went out of stock without vector is noop", 10, 0, false, ActionNone},
		{"dropped below threshold removes vector", 10, 3, true, ActionRemove},
		{"unchanged healthy stock refreshes existing", 10, 10, true, ActionRefresh},
		{"unchanged healthy stock without vector is noop", 10, 10, false, ActionNone},
		{"healthy restock refreshes", 6, 50, true, ActionRefresh},
		{"exactly at threshold is not low", 10, threshold, true, ActionRefresh},
		{"one below threshold is low", 10, threshold - 1, true, ActionRemove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideAction(tt.prev, tt.next, tt.hasEmbedding, threshold)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyInventoryUpdateKeepsActiveInvariant(t *testing.T) {
	p := activeProduct("Voltaic Aero 14 laptop", 10)
	products := newFakeProductRepo(p)
	uc := NewSyncUsecase(products, newFakeVectorRepo(), newFakeJobRepo(), &fakeEmbedder{}, testConfig())

	for _, qty := range []int{0, 7, 3, 42} {
		updated, _, err := uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), qty)
		require.NoError(t, err)
		assert.Equal(t, qty > 0, updated.IsActive, "quantity %d", qty)
		assert.Equal(t, qty, updated.Quantity)
	}
}

func TestApplyInventoryUpdateAddsEmbedding(t *testing.T) {
	p := activeProduct("Northwave Hush ANC headphones", 0)
	products := newFakeProductRepo(p)
	vectors := newFakeVectorRepo()
	uc := NewSyncUsecase(products, vectors, newFakeJobRepo(), &fakeEmbedder{}, testConfig())

	_, action, err := uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), 10)
	require.NoError(t, err)
	assert.Equal(t, ActionAdd, action)
	assert.True(t, vectors.has(p.ID))

	stored, err := products.FindByID(p.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.HasEmbedding)
	require.NotNil(t, stored.VectorID)
	assert.NotNil(t, stored.LastEmbedded)
}

func TestApplyInventoryUpdateRemovesOnLowStock(t *testing.T) {
	p := activeProduct("Morning Ritual Burr Grinder", 10)
	vid := uuid.New()
	p.HasEmbedding = true
	p.VectorID = &vid
	products := newFakeProductRepo(p)
	vectors := newFakeVectorRepo()
	require.NoError(t, vectors.Upsert(&model.ProductVector{ID: vid, ProductID: p.ID}))

	uc := NewSyncUsecase(products, vectors, newFakeJobRepo(), &fakeEmbedder{}, testConfig())

	_, action, err := uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), 3)
	require.NoError(t, err)
	assert.Equal(t, ActionRemove, action)
	assert.False(t, vectors.has(p.ID))

	stored, err := products.FindByID(p.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.HasEmbedding)
	assert.Nil(t, stored.VectorID)
	// The quantity change itself still committed.
	assert.Equal(t, 3, stored.Quantity)
	assert.True(t, stored.IsActive)
}

func TestApplyInventoryUpdateEmbeddingFailureDegradesGracefully(t *testing.T) {
	p := activeProduct("Voltaic Forge 16 Pro workstation", 0)
	products := newFakeProductRepo(p)
	uc := NewSyncUsecase(products, newFakeVectorRepo(), newFakeJobRepo(),
		&fakeEmbedder{err: errors.New("provider unreachable")}, testConfig())

	updated, action, err := uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), 20)
	require.NoError(t, err, "inventory update must not fail on embedding errors")
	assert.Equal(t, ActionAdd, action)
	assert.Equal(t, 20, updated.Quantity)
	assert.True(t, updated.IsActive)

	stored, err := products.FindByID(p.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.HasEmbedding)
}

func TestReconcileIdempotent(t *testing.T) {
	p := activeProduct("Morning Ritual Espresso Blend", 0)
	products := newFakeProductRepo(p)
	vectors := newFakeVectorRepo()
	uc := NewSyncUsecase(products, vectors, newFakeJobRepo(), &fakeEmbedder{}, testConfig())

	_, _, err := uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), 10)
	require.NoError(t, err)
	first, err := products.FindByID(p.ID.String())
	require.NoError(t, err)

	_, _, err = uc.ApplyInventoryUpdate(context.Background(), p.ID.String(), 10)
	require.NoError(t, err)
	second, err := products.FindByID(p.ID.String())
	require.NoError(t, err)

	assert.True(t, vectors.has(p.ID))
	assert.Equal(t, first.VectorID, second.VectorID, "refresh must reuse the vector id")
	assert.True(t, second.HasEmbedding)
}

func TestRunBulkSyncCounters(t *testing.T) {
	good1 := activeProduct("Northwave Petal Buds with charging case", 30)
	good2 := activeProduct("Voltaic Aero 14 ultraportable laptop", 12)
	short := activeProduct("X", 8)
	short.Description = ""
	short.Price = 1
	failing := activeProduct("POISON product that the provider rejects", 9)

	stale := activeProduct("Discontinued kettle", 0)
	staleVID := uuid.New()
	stale.HasEmbedding = true
	stale.VectorID = &staleVID

	products := newFakeProductRepo(good1, good2, short, failing, stale)
	vectors := newFakeVectorRepo()
	require.NoError(t, vectors.Upsert(&model.ProductVector{ID: staleVID, ProductID: stale.ID}))
	jobs := newFakeJobRepo()

	uc := NewSyncUsecase(products, vectors, jobs, &fakeEmbedder{failTexts: "POISON"}, testConfig())

	job, err := uc.RunBulkSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, 5, job.TotalItems)
	assert.Equal(t, job.TotalItems, job.ProcessedItems)
	assert.Equal(t, job.ProcessedItems, job.SuccessfulItems+job.FailedItems+job.SkippedItems)
	assert.Equal(t, 3, job.SuccessfulItems) // good1, good2, stale removal
	assert.Equal(t, 1, job.FailedItems)
	assert.Equal(t, 1, job.SkippedItems)
	assert.NotNil(t, job.CompletedAt)

	assert.True(t, vectors.has(good1.ID))
	assert.True(t, vectors.has(good2.ID))
	assert.False(t, vectors.has(short.ID))
	assert.False(t, vectors.has(failing.ID))
	assert.False(t, vectors.has(stale.ID), "inactive product must lose its vector")

	unmarked, err := products.FindByID(stale.ID.String())
	require.NoError(t, err)
	assert.False(t, unmarked.HasEmbedding)
}

func TestRunBulkSyncIsIdempotent(t *testing.T) {
	p := activeProduct("Northwave Hush ANC headphones", 40)
	products := newFakeProductRepo(p)
	vectors := newFakeVectorRepo()
	uc := NewSyncUsecase(products, vectors, newFakeJobRepo(), &fakeEmbedder{}, testConfig())

	_, err := uc.RunBulkSync(context.Background())
	require.NoError(t, err)
	firstID := vectors.vectors[p.ID].ID

	job, err := uc.RunBulkSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, job.Status)
	assert.Equal(t, firstID, vectors.vectors[p.ID].ID, "re-run overwrites the same vector")
}

func TestRunBulkSyncFatalErrorFailsJob(t *testing.T) {
	products := newFakeProductRepo()
	products.listErr = errors.New("catalog unreachable")
	jobs := newFakeJobRepo()
	uc := NewSyncUsecase(products, newFakeVectorRepo(), jobs, &fakeEmbedder{}, testConfig())

	job, err := uc.RunBulkSync(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorMessage, "catalog unreachable")
	assert.NotNil(t, job.CompletedAt)
}

func TestSweepStaleJobs(t *testing.T) {
	jobs := newFakeJobRepo()
	old := &model.EmbeddingJob{
		ID:        uuid.New(),
		Status:    model.JobStatusRunning,
		JobType:   model.JobTypeBulk,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	fresh := &model.EmbeddingJob{
		ID:        uuid.New(),
		Status:    model.JobStatusRunning,
		JobType:   model.JobTypeBulk,
		CreatedAt: time.Now(),
	}
	require.NoError(t, jobs.Create(old))
	require.NoError(t, jobs.Create(fresh))

	uc := NewSyncUsecase(newFakeProductRepo(), newFakeVectorRepo(), jobs, &fakeEmbedder{}, testConfig())

	swept, err := uc.SweepStaleJobs()
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	sweptJob, err := jobs.FindByID(old.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusFailed, sweptJob.Status)

	untouched, err := jobs.FindByID(fresh.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusRunning, untouched.Status)
}
