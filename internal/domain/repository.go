package domain

import (
	"context"
	"time"
)

// CatalogRepository provides read-only access to bounded, possibly stale
// offer snapshots. No strong consistency is required between catalog updates
// and a given match computation.
type CatalogRepository interface {
	// ListByCore returns up to limit offers in the same coarse product-core
	// bucket as the reference. The cap bounds worst-case match latency.
	ListByCore(ctx context.Context, coreID string, limit int) ([]Offer, error)

	// ListActive returns every available offer, for the batch audit sweep.
	ListActive(ctx context.Context) ([]Offer, error)

	// GetByID returns a single offer snapshot.
	GetByID(ctx context.Context, id string) (*Offer, error)
}

// OrderRepository persists per-supplier order records. Save must be
// idempotent on Order.ID: saving the same id twice is a no-op, not an error.
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
}

// ClassificationCache memoizes classifications keyed by normalized source
// text. A signature is immutable once computed, so cache entries only ever
// expire, never invalidate.
type ClassificationCache interface {
	Get(ctx context.Context, key string) (*Classification, error)
	Set(ctx context.Context, key string, value *Classification, ttl time.Duration) error
}
