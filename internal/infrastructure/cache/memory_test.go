package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplymatch/backend/internal/domain"
)

func sampleClassification(core string) *domain.Classification {
	return &domain.Classification{
		Signature: domain.Signature{
			Domain: domain.DomainShrimp,
			Attrs:  domain.ShrimpAttrs{Species: "vannamei"},
			CoreID: core,
		},
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key-1", sampleClassification("shrimp:vannamei"), time.Minute))

		got, err := c.Get(ctx, "key-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "shrimp:vannamei", got.Signature.CoreID)
	})

	t.Run("miss returns sentinel error", func(t *testing.T) {
		c := NewMemoryCache()
		got, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Nil(t, got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key-1", sampleClassification("x"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "key-1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("overwrite replaces the value", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key-1", sampleClassification("old"), time.Minute))
		require.NoError(t, c.Set(ctx, "key-1", sampleClassification("new"), time.Minute))

		got, err := c.Get(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Signature.CoreID)
		assert.Equal(t, 1, c.Size())
	})

	t.Run("clear empties the cache", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "key-1", sampleClassification("x"), time.Minute))
		c.Clear()
		assert.Equal(t, 0, c.Size())
	})
}
