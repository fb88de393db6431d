package reviewrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/nuvia/nutrition-advisor/internal/domain/review"
	apperrors "github.com/nuvia/nutrition-advisor/pkg/errors"
)

// MemoryRepository is an in-memory review.Repository used for tests/dev.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]review.Item
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]review.Item)}
}

// Insert implements review.Repository.
func (r *MemoryRepository) Insert(_ context.Context, item review.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

// GetByID implements review.Repository.
func (r *MemoryRepository) GetByID(_ context.Context, reviewID string) (review.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[reviewID]
	if !ok {
		return review.Item{}, apperrors.Wrap(review.CodeNotFound, "review item not found", nil)
	}
	return item, nil
}

// GetBySessionID implements review.Repository.
func (r *MemoryRepository) GetBySessionID(_ context.Context, sessionID string) (review.Item, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.SessionID == sessionID {
			return item, true, nil
		}
	}
	return review.Item{}, false, nil
}

// Update implements review.Repository.
func (r *MemoryRepository) Update(_ context.Context, item review.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return apperrors.Wrap(review.CodeNotFound, "review item not found", nil)
	}
	r.items[item.ID] = item
	return nil
}

// List implements review.Repository: risk level descending, then creation
// time descending.
func (r *MemoryRepository) List(_ context.Context, filter review.Filter, offset, limit int) ([]review.Item, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []review.Item
	for _, item := range r.items {
		if !matches(item, filter) {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].RiskLevel.Rank() != matched[j].RiskLevel.Rank() {
			return matched[i].RiskLevel.Rank() > matched[j].RiskLevel.Rank()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// CountByStatus implements review.Repository.
func (r *MemoryRepository) CountByStatus(_ context.Context, status review.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.items {
		if item.Status == status {
			count++
		}
	}
	return count, nil
}

// CountPendingByRisk implements review.Repository.
func (r *MemoryRepository) CountPendingByRisk(_ context.Context, risk review.RiskLevel) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.items {
		if item.Status == review.StatusPending && item.RiskLevel == risk {
			count++
		}
	}
	return count, nil
}

func matches(item review.Item, filter review.Filter) bool {
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if filter.RiskLevel != "" && item.RiskLevel != filter.RiskLevel {
		return false
	}
	if filter.AssignedTo != "" && item.AssignedTo != filter.AssignedTo {
		return false
	}
	if filter.DateFrom != nil && item.CreatedAt.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && item.CreatedAt.After(*filter.DateTo) {
		return false
	}
	return true
}
