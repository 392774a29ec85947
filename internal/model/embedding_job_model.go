package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

const (
	JobTypeSingle = "single"
	JobTypeBulk   = "bulk"
	JobTypeRemove = "remove"
	JobTypeUpdate = "update"
)

// EmbeddingJob records one embedding run for observability. It is not used
// for recovery: a run that dies mid-way is only swept to failed later, never
// resumed.
type EmbeddingJob struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Status          string     `gorm:"type:varchar(20);index" json:"status"`
	JobType         string     `gorm:"type:varchar(20)" json:"job_type"`
	TotalItems      int        `json:"total_items"`
	ProcessedItems  int        `json:"processed_items"`
	SuccessfulItems int        `json:"successful_items"`
	FailedItems     int        `json:"failed_items"`
	SkippedItems    int        `json:"skipped_items"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func (j *EmbeddingJob) TableName() string {
	return "embedding_jobs"
}
