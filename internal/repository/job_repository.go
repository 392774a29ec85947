package repository

import (
	"time"

	"github.com/shopsense-ai/shopsense/internal/model"
	"gorm.io/gorm"
)

type JobRepositoryInterface interface {
	Create(j *model.EmbeddingJob) error
	Update(j *model.EmbeddingJob) error
	FindByID(id string) (*model.EmbeddingJob, error)
	ListRecent(limit int) ([]model.EmbeddingJob, error)
	MarkStaleRunning(cutoff time.Time) (int64, error)
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(j *model.EmbeddingJob) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) Update(j *model.EmbeddingJob) error {
	return r.db.Save(j).Error
}

func (r *JobRepository) FindByID(id string) (*model.EmbeddingJob, error) {
	var j model.EmbeddingJob
	err := r.db.First(&j, "id = ?", id).Error
	return &j, err
}

func (r *JobRepository) ListRecent(limit int) ([]model.EmbeddingJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []model.EmbeddingJob
	err := r.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

// MarkStaleRunning fails running jobs older than the cutoff. A job left in
// running state can only mean the process that owned it died mid-run.
func (r *JobRepository) MarkStaleRunning(cutoff time.Time) (int64, error) {
	now := time.Now()
	res := r.db.Model(&model.EmbeddingJob{}).
		Where("status = ? AND created_at < ?", model.JobStatusRunning, cutoff).
		Updates(map[string]any{
			"status":        model.JobStatusFailed,
			"error_message": "job stale: owning process terminated before completion",
			"completed_at":  now,
		})
	return res.RowsAffected, res.Error
}
