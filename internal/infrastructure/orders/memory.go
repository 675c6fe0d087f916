package orders

import (
	"context"
	"sync"

	"github.com/supplymatch/backend/internal/domain"
)

// MemoryRepository is a thread-safe in-memory order store. Save is
// idempotent on order id: resubmitting the same checkout keeps the first
// record instead of duplicating it.
type MemoryRepository struct {
	mutex  sync.RWMutex
	orders map[string]domain.Order
}

// NewMemoryRepository creates an empty order store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]domain.Order)}
}

// Save stores an order unless one with the same id already exists.
func (r *MemoryRepository) Save(ctx context.Context, order *domain.Order) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.orders[order.ID]; exists {
		return nil
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns a stored order.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

// Count returns the number of stored orders (for tests and monitoring).
func (r *MemoryRepository) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.orders)
}
