package reportstore

import (
	"context"

	"github.com/nuvia/nutrition-advisor/internal/domain/scoring"
)

// Store is the full report storage surface: the recommendation service
// only reads (recommend.ReportStore), the upload handler also writes.
type Store interface {
	Put(ctx context.Context, sessionID string, metrics []scoring.LabMetric) error
	Get(ctx context.Context, sessionID string) ([]scoring.LabMetric, error)
	Delete(ctx context.Context, sessionID string) error
}

var (
	_ Store = (*ValkeyStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
