package commercerepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nuvia/nutrition-advisor/internal/domain/recommend"
)

// Binding maps a recommendation key to a purchasable product slot.
type Binding struct {
	RecKey    string    `json:"rec_key"`
	SlotType  string    `json:"slot_type"` // "shopify" | "partner" | "none"
	ProductID string    `json:"product_id"`
	OfferID   string    `json:"offer_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository manages commerce slot bindings; Resolve serves the
// recommendation pipeline, Upsert/List/Delete serve the admin surface.
type Repository interface {
	Resolve(ctx context.Context, recKey string) (recommend.CommerceSlot, error)
	Upsert(ctx context.Context, binding Binding) (Binding, error)
	List(ctx context.Context) ([]Binding, error)
	Delete(ctx context.Context, recKey string) (bool, error)
}

// MemoryRepository is an in-memory Repository used for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bindings: make(map[string]Binding)}
}

// Resolve implements recommend.CommerceResolver. Unbound keys resolve to
// an empty "none" slot rather than an error.
func (r *MemoryRepository) Resolve(_ context.Context, recKey string) (recommend.CommerceSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.bindings[normalizeKey(recKey)]
	if !ok {
		return recommend.CommerceSlot{Type: "none"}, nil
	}
	return binding.slot(), nil
}

// Upsert inserts or replaces the binding for its rec key.
func (r *MemoryRepository) Upsert(_ context.Context, binding Binding) (Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	binding.RecKey = normalizeKey(binding.RecKey)
	binding.UpdatedAt = time.Now()
	r.bindings[binding.RecKey] = binding
	return binding, nil
}

// List returns all bindings ordered by rec key.
func (r *MemoryRepository) List(_ context.Context) ([]Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.bindings))
	for _, binding := range r.bindings {
		out = append(out, binding)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecKey < out[j].RecKey })
	return out, nil
}

// Delete removes a binding, reporting whether it existed.
func (r *MemoryRepository) Delete(_ context.Context, recKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := normalizeKey(recKey)
	_, ok := r.bindings[key]
	delete(r.bindings, key)
	return ok, nil
}

func (b Binding) slot() recommend.CommerceSlot {
	return recommend.CommerceSlot{
		Type:      b.SlotType,
		ProductID: b.ProductID,
		OfferID:   b.OfferID,
	}
}

func normalizeKey(recKey string) string {
	return strings.ToLower(strings.TrimSpace(recKey))
}
