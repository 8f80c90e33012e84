package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avbaser/coldstore/internal/repository"
)

type stubItemRepo struct {
	items []*repository.Item
	err   error
}

func (s *stubItemRepo) GetAll(context.Context) ([]*repository.Item, error) {
	return s.items, s.err
}

func TestLoadInitialData(t *testing.T) {
	t.Run("preloads all items", func(t *testing.T) {
		repo := &stubItemRepo{items: []*repository.Item{
			{ID: 1, Name: "Ramesh Traders"},
			{ID: 2, Name: "Mohan Cold Stores"},
		}}
		c := NewItemCache(repo, zap.NewNop())

		require.NoError(t, c.LoadInitialData(context.Background()))

		item, found := c.Get(1)
		require.True(t, found)
		assert.Equal(t, "Ramesh Traders", item.Name)

		_, found = c.Get(3)
		assert.False(t, found)
	})

	t.Run("propagates repository error", func(t *testing.T) {
		repo := &stubItemRepo{err: errors.New("database error")}
		c := NewItemCache(repo, zap.NewNop())

		assert.Error(t, c.LoadInitialData(context.Background()))
	})
}

func TestSetGetDelete(t *testing.T) {
	c := NewItemCache(&stubItemRepo{}, zap.NewNop())

	c.Set(&repository.Item{ID: 42, Name: "Ramesh Traders"})

	item, found := c.Get(42)
	require.True(t, found)
	assert.Equal(t, int64(42), item.ID)

	c.Delete(42)
	_, found = c.Get(42)
	assert.False(t, found)

	// deleting a missing id is a no-op
	c.Delete(42)
}

func TestGetReturnsCopy(t *testing.T) {
	c := NewItemCache(&stubItemRepo{}, zap.NewNop())
	c.Set(&repository.Item{ID: 42, Name: "Ramesh Traders"})

	item, found := c.Get(42)
	require.True(t, found)
	item.Name = "mutated"

	again, found := c.Get(42)
	require.True(t, found)
	assert.Equal(t, "Ramesh Traders", again.Name)
}
