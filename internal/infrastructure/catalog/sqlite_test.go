package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplymatch/backend/internal/domain"
)

func newTestDB(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "offers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()

	offer := func(id, core, price string, available bool) domain.Offer {
		return domain.Offer{
			ID:          id,
			SupplierID:  "sup-a",
			Name:        "offer " + id,
			Signature:   domain.Signature{CoreID: core},
			Price:       decimal.RequireFromString(price),
			PackBaseQty: 1000,
			PackKnown:   true,
			Available:   available,
		}
	}

	t.Run("round trip preserves price exactly", func(t *testing.T) {
		repo := newTestDB(t)
		require.NoError(t, repo.Put(ctx, offer("a", "shrimp:vannamei", "9.99", true)))

		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")), "price = %s", got.Price)
		assert.Equal(t, "shrimp:vannamei", got.Signature.CoreID)
		assert.Empty(t, got.Signature.Domain, "stored rows carry only the core bucket")
		assert.True(t, got.PackKnown)
	})

	t.Run("get missing offer", func(t *testing.T) {
		repo := newTestDB(t)
		_, err := repo.GetByID(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrOfferNotFound)
	})

	t.Run("put replaces by id", func(t *testing.T) {
		repo := newTestDB(t)
		require.NoError(t, repo.Put(ctx, offer("a", "shrimp:vannamei", "9.99", true)))
		require.NoError(t, repo.Put(ctx, offer("a", "shrimp:vannamei", "8.50", true)))

		got, err := repo.GetByID(ctx, "a")
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("8.50")))

		all, err := repo.ListByCore(ctx, "shrimp:vannamei", 0)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("list by core is ordered and limited", func(t *testing.T) {
		repo := newTestDB(t)
		require.NoError(t, repo.Put(ctx, offer("b", "fish:cod", "5.00", true)))
		require.NoError(t, repo.Put(ctx, offer("a", "fish:cod", "5.00", true)))
		require.NoError(t, repo.Put(ctx, offer("c", "fish:cod", "5.00", true)))

		got, err := repo.ListByCore(ctx, "fish:cod", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].ID)
		assert.Equal(t, "b", got[1].ID)
	})

	t.Run("list active filters unavailable", func(t *testing.T) {
		repo := newTestDB(t)
		require.NoError(t, repo.Put(ctx, offer("a", "fish:cod", "5.00", true)))
		require.NoError(t, repo.Put(ctx, offer("b", "fish:cod", "5.00", false)))

		got, err := repo.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})
}
