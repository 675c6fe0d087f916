package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCartNotFound is returned when the cart id is unknown
	ErrCartNotFound = errors.New("cart not found")

	// ErrLineNotFound is returned when a cart line id is unknown
	ErrLineNotFound = errors.New("cart line not found")

	// ErrVersionConflict is returned when an optimistic version check fails
	ErrVersionConflict = errors.New("cart modified concurrently, retry with current version")

	// ErrOfferNotFound is returned when the catalog has no such offer
	ErrOfferNotFound = errors.New("offer not found in catalog")

	// ErrOrderNotFound is returned when an order id is unknown
	ErrOrderNotFound = errors.New("order not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog store cannot be read
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrNoDestination is returned when checkout runs without a destination
	ErrNoDestination = errors.New("destination is required for checkout")
)
