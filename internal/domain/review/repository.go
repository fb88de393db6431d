package review

import "context"

// Repository persists review queue items.
//
// List orders by risk level descending (CRITICAL first) and then by
// creation time descending. Implementations return CodeNotFound-coded
// errors for missing items.
type Repository interface {
	Insert(ctx context.Context, item Item) error
	GetByID(ctx context.Context, reviewID string) (Item, error)
	GetBySessionID(ctx context.Context, sessionID string) (Item, bool, error)
	Update(ctx context.Context, item Item) error
	List(ctx context.Context, filter Filter, offset, limit int) ([]Item, int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	CountPendingByRisk(ctx context.Context, risk RiskLevel) (int, error)
}
