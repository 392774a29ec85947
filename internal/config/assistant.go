package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// AssistantConfig holds the tuning knobs for the embedding sync engine and
// the semantic search path.
type AssistantConfig struct {
	LowStockThreshold      int
	MinSimilarityScore     float64
	MinEmbeddingTextLength int
	BulkBatchSize          int
	BulkBatchDelay         time.Duration
	JobProgressEvery       int
	MaxTranscriptTurns     int
	StaleJobCutoff         time.Duration
}

var (
	assistantConfig *AssistantConfig
	assistantOnce   sync.Once
)

func intenv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func LoadAssistantConfig() *AssistantConfig {
	assistantOnce.Do(func() {
		assistantConfig = &AssistantConfig{
			LowStockThreshold:      intenv("LOW_STOCK_THRESHOLD", 5),
			MinSimilarityScore:     floatenv("MIN_SIMILARITY_SCORE", 0.65),
			MinEmbeddingTextLength: intenv("MIN_EMBED_TEXT_LENGTH", 20),
			BulkBatchSize:          intenv("BULK_BATCH_SIZE", 25),
			BulkBatchDelay:         time.Duration(intenv("BULK_BATCH_DELAY_MS", 500)) * time.Millisecond,
			JobProgressEvery:       intenv("JOB_PROGRESS_EVERY", 10),
			MaxTranscriptTurns:     intenv("MAX_TRANSCRIPT_TURNS", 16),
			StaleJobCutoff:         time.Duration(intenv("STALE_JOB_CUTOFF_MINUTES", 30)) * time.Minute,
		}
	})
	return assistantConfig
}
