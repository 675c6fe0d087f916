package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplymatch/backend/internal/domain"
)

func memOffer(id, core string, available bool) domain.Offer {
	return domain.Offer{
		ID:         id,
		SupplierID: "sup-a",
		Name:       "offer " + id,
		Signature:  domain.Signature{CoreID: core},
		Price:      decimal.NewFromInt(10),
		Available:  available,
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("get by id", func(t *testing.T) {
		repo := NewMemoryRepository()
		repo.Put(memOffer("a", "shrimp:vannamei", true))

		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "a", got.ID)

		_, err = repo.GetByID(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrOfferNotFound)
	})

	t.Run("list by core", func(t *testing.T) {
		repo := NewMemoryRepository()
		repo.Put(memOffer("a", "shrimp:vannamei", true))
		repo.Put(memOffer("b", "shrimp:vannamei", true))
		repo.Put(memOffer("c", "fish:cod", true))

		got, err := repo.ListByCore(ctx, "shrimp:vannamei", 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.ListByCore(ctx, "shrimp:vannamei", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		got, err = repo.ListByCore(ctx, "unknown:core", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("replace moves core bucket", func(t *testing.T) {
		repo := NewMemoryRepository()
		repo.Put(memOffer("a", "shrimp:vannamei", true))

		moved := memOffer("a", "fish:cod", true)
		repo.Put(moved)

		old, err := repo.ListByCore(ctx, "shrimp:vannamei", 0)
		require.NoError(t, err)
		assert.Empty(t, old)

		now, err := repo.ListByCore(ctx, "fish:cod", 0)
		require.NoError(t, err)
		assert.Len(t, now, 1)
	})

	t.Run("list active filters unavailable", func(t *testing.T) {
		repo := NewMemoryRepository()
		repo.Put(memOffer("a", "shrimp:vannamei", true))
		repo.Put(memOffer("b", "shrimp:vannamei", false))

		got, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})
}
