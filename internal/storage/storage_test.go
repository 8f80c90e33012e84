package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/avbaser/coldstore/internal/billing"
	mock_db "github.com/avbaser/coldstore/internal/db/mocks"
	"github.com/avbaser/coldstore/internal/repository"
	mock_storage "github.com/avbaser/coldstore/internal/storage/mocks"
)

var fixedNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

type storageMocks struct {
	db      *mock_db.MockDB
	tx      *mock_db.MockTx
	items   *mock_storage.MockItemRepository
	history *mock_storage.MockHistoryRepository
	outbox  *mock_storage.MockOutboxTaskRepository
	cache   *mock_storage.MockItemCache
}

func newTestStorage(t *testing.T) (*Storage, *storageMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &storageMocks{
		db:      mock_db.NewMockDB(ctrl),
		tx:      mock_db.NewMockTx(ctrl),
		items:   mock_storage.NewMockItemRepository(ctrl),
		history: mock_storage.NewMockHistoryRepository(ctrl),
		outbox:  mock_storage.NewMockOutboxTaskRepository(ctrl),
		cache:   mock_storage.NewMockItemCache(ctrl),
	}

	s := NewStorage(m.db, m.items, m.history, m.outbox, m.cache, zap.NewNop())
	s.timeNow = func() time.Time { return fixedNow }
	return s, m
}

func testInputItem() Item {
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-11")

	return Item{
		Name:          "Ramesh Traders",
		GSTNumber:     "27AAPFU0939F1ZV",
		StartDate:     start,
		EndDate:       end,
		Quantity:      3,
		RatePerDay:    decimal.NewFromInt(50),
		PaymentAmount: decimal.Zero,
		ItemName:      "potatoes",
		Location:      "chamber A",
	}
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, m := newTestStorage(t)
		input := testInputItem()

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		m.items.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, item *repository.Item) (int64, error) {
				assert.True(t, decimal.NewFromInt(1500).Equal(item.BillAmount),
					"bill amount %s", item.BillAmount)
				assert.Equal(t, fixedNow, item.CreatedAt)
				assert.Equal(t, fixedNow, item.UpdatedAt)
				return 42, nil
			})

		m.history.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, entry *repository.HistoryEntry) error {
				assert.Equal(t, int64(42), entry.ItemID)
				assert.Equal(t, repository.OperationCreated, entry.Operation)
				assert.Equal(t, fixedNow, entry.RecordedAt)
				return nil
			})

		m.outbox.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, task *repository.OutboxTask) error {
				assert.Equal(t, "inventory_audit", task.Topic)

				var payload repository.AuditPayload
				require.NoError(t, json.Unmarshal(task.Payload, &payload))
				assert.Equal(t, "created", payload.Operation)
				assert.Equal(t, "1500", payload.BillAmount)
				assert.Equal(t, "2024-05-10 08:30:00", payload.RecordedAt)
				return nil
			})

		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.cache.EXPECT().Set(gomock.Any())

		id, err := s.AddItem(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
	})

	t.Run("end before start rejected without writes", func(t *testing.T) {
		s, _ := newTestStorage(t)
		input := testInputItem()
		input.StartDate, input.EndDate = input.EndDate, input.StartDate

		id, err := s.AddItem(ctx, input)
		assert.ErrorIs(t, err, billing.ErrInvalidDateRange)
		assert.Zero(t, id)
	})

	t.Run("begin transaction error", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(nil, errors.New("connection refused"))

		id, err := s.AddItem(ctx, testInputItem())
		assert.Error(t, err)
		assert.Zero(t, id)
	})

	t.Run("insert error rolls back", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		m.items.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(int64(0), errors.New("insert failed"))

		id, err := s.AddItem(ctx, testInputItem())
		assert.Error(t, err)
		assert.Zero(t, id)
	})

	t.Run("history error rolls back", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		m.items.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(int64(42), nil)
		m.history.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			Return(errors.New("insert failed"))

		id, err := s.AddItem(ctx, testInputItem())
		assert.Error(t, err)
		assert.Zero(t, id)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps created_at", func(t *testing.T) {
		s, m := newTestStorage(t)
		input := testInputItem()
		createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

		existing := toRepoItem(input)
		existing.ID = 42
		existing.CreatedAt = createdAt
		m.items.EXPECT().
			GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(existing, nil)

		m.items.EXPECT().
			UpdateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, item *repository.Item) error {
				assert.Equal(t, int64(42), item.ID)
				assert.Equal(t, createdAt, item.CreatedAt)
				assert.Equal(t, fixedNow, item.UpdatedAt)
				assert.True(t, decimal.NewFromInt(1500).Equal(item.BillAmount))
				return nil
			})

		m.history.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, entry *repository.HistoryEntry) error {
				assert.Equal(t, repository.OperationUpdated, entry.Operation)
				return nil
			})
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.cache.EXPECT().Set(gomock.Any())

		err := s.UpdateItem(ctx, 42, input)
		assert.NoError(t, err)
	})

	t.Run("item not found", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		m.items.EXPECT().
			GetByIDTx(gomock.Any(), m.tx, int64(99)).
			Return(nil, repository.ErrObjectNotFound)

		err := s.UpdateItem(ctx, 99, testInputItem())
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})

	t.Run("end before start rejected without writes", func(t *testing.T) {
		s, _ := newTestStorage(t)
		input := testInputItem()
		input.StartDate, input.EndDate = input.EndDate, input.StartDate

		err := s.UpdateItem(ctx, 42, input)
		assert.ErrorIs(t, err, billing.ErrInvalidDateRange)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success records pre-deletion snapshot", func(t *testing.T) {
		s, m := newTestStorage(t)

		existing := toRepoItem(testInputItem())
		existing.ID = 42
		existing.BillAmount = decimal.NewFromInt(1500)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
		m.items.EXPECT().
			GetByIDTx(gomock.Any(), m.tx, int64(42)).
			Return(existing, nil)
		m.items.EXPECT().DeleteTx(gomock.Any(), m.tx, int64(42)).Return(nil)

		m.history.EXPECT().
			CreateTx(gomock.Any(), m.tx, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, entry *repository.HistoryEntry) error {
				assert.Equal(t, repository.OperationDeleted, entry.Operation)
				assert.Equal(t, int64(42), entry.ItemID)
				assert.Equal(t, existing.Name, entry.Name)
				assert.True(t, existing.BillAmount.Equal(entry.BillAmount))
				return nil
			})
		m.outbox.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)

		m.tx.EXPECT().Commit(gomock.Any()).Return(nil)
		m.cache.EXPECT().Delete(int64(42))

		err := s.DeleteItem(ctx, 42)
		assert.NoError(t, err)
	})

	t.Run("item not found", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.db.EXPECT().BeginTx(gomock.Any()).Return(m.tx, nil)
		m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)
		m.items.EXPECT().
			GetByIDTx(gomock.Any(), m.tx, int64(99)).
			Return(nil, repository.ErrObjectNotFound)

		err := s.DeleteItem(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		s, m := newTestStorage(t)

		cached := toRepoItem(testInputItem())
		cached.ID = 42
		m.cache.EXPECT().Get(int64(42)).Return(cached, true)

		item, err := s.GetItem(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), item.ID)
		assert.Equal(t, "Ramesh Traders", item.Name)
	})

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		s, m := newTestStorage(t)

		stored := toRepoItem(testInputItem())
		stored.ID = 42
		m.cache.EXPECT().Get(int64(42)).Return(nil, false)
		m.items.EXPECT().GetByID(gomock.Any(), int64(42)).Return(stored, nil)
		m.cache.EXPECT().Set(stored)

		item, err := s.GetItem(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), item.ID)
	})

	t.Run("item not found", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.cache.EXPECT().Get(int64(99)).Return(nil, false)
		m.items.EXPECT().
			GetByID(gomock.Any(), int64(99)).
			Return(nil, repository.ErrObjectNotFound)

		item, err := s.GetItem(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
		assert.Nil(t, item)
	})
}

func TestListItems(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		s, m := newTestStorage(t)

		first := toRepoItem(testInputItem())
		first.ID = 1
		second := toRepoItem(testInputItem())
		second.ID = 2
		m.items.EXPECT().GetAll(gomock.Any()).Return([]*repository.Item{first, second}, nil)

		items, err := s.ListItems(ctx)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, int64(2), items[1].ID)
	})

	t.Run("repository error", func(t *testing.T) {
		s, m := newTestStorage(t)

		m.items.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("database error"))

		items, err := s.ListItems(ctx)
		assert.Error(t, err)
		assert.Nil(t, items)
	})
}

func TestListHistory(t *testing.T) {
	ctx := context.Background()

	s, m := newTestStorage(t)

	entries := []*repository.HistoryEntry{
		{ID: 1, ItemID: 42, Operation: repository.OperationCreated, RecordedAt: fixedNow},
		{ID: 2, ItemID: 42, Operation: repository.OperationDeleted, RecordedAt: fixedNow},
	}
	m.history.EXPECT().GetAll(gomock.Any()).Return(entries, nil)

	history, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "created", history[0].Operation)
	assert.Equal(t, "deleted", history[1].Operation)
}

func TestGetItemHistory(t *testing.T) {
	ctx := context.Background()

	s, m := newTestStorage(t)

	entries := []*repository.HistoryEntry{
		{ID: 7, ItemID: 42, Operation: repository.OperationUpdated, RecordedAt: fixedNow},
	}
	m.history.EXPECT().GetByItemID(gomock.Any(), int64(42)).Return(entries, nil)

	history, err := s.GetItemHistory(ctx, 42)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(42), history[0].ItemID)
}
