package catalog

import (
	"context"
	"sync"

	"github.com/supplymatch/backend/internal/domain"
)

// MemoryRepository is a thread-safe in-memory offer snapshot store, used in
// tests and for small deployments that load the catalog at startup.
type MemoryRepository struct {
	mutex  sync.RWMutex
	byID   map[string]domain.Offer
	byCore map[string][]string
}

// NewMemoryRepository creates an empty in-memory catalog.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]domain.Offer),
		byCore: make(map[string][]string),
	}
}

// Put inserts or replaces an offer snapshot.
func (r *MemoryRepository) Put(offer domain.Offer) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if old, ok := r.byID[offer.ID]; ok {
		r.removeFromCore(old.Signature.CoreID, offer.ID)
	}
	r.byID[offer.ID] = offer
	core := offer.Signature.CoreID
	r.byCore[core] = append(r.byCore[core], offer.ID)
}

func (r *MemoryRepository) removeFromCore(core, id string) {
	ids := r.byCore[core]
	for i, existing := range ids {
		if existing == id {
			r.byCore[core] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// ListByCore returns up to limit offers in one product-core bucket.
func (r *MemoryRepository) ListByCore(ctx context.Context, coreID string, limit int) ([]domain.Offer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	ids := r.byCore[coreID]
	out := make([]domain.Offer, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.byID[id])
	}
	return out, nil
}

// ListActive returns every available offer.
func (r *MemoryRepository) ListActive(ctx context.Context) ([]domain.Offer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]domain.Offer, 0, len(r.byID))
	for _, offer := range r.byID {
		if offer.Available {
			out = append(out, offer)
		}
	}
	return out, nil
}

// GetByID returns a single offer snapshot.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	offer, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return &offer, nil
}
