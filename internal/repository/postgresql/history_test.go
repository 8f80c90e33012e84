package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_db "github.com/avbaser/coldstore/internal/db/mocks"
	"github.com/avbaser/coldstore/internal/repository"
	"github.com/avbaser/coldstore/internal/repository/postgresql"
)

func testHistoryEntry() *repository.HistoryEntry {
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-01-11")

	return &repository.HistoryEntry{
		ItemID:        42,
		Operation:     repository.OperationCreated,
		Name:          "Ramesh Traders",
		GSTNumber:     "27AAPFU0939F1ZV",
		StartDate:     start,
		EndDate:       end,
		Quantity:      3,
		RatePerDay:    decimal.NewFromInt(50),
		BillAmount:    decimal.NewFromInt(1500),
		PaymentAmount: decimal.Zero,
		RecordedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHistoryRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		mockTx := mock_db.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		entry := testHistoryEntry()

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Eq(entry.ItemID),
				gomock.Eq(entry.Operation),
				gomock.Eq(entry.Name),
				gomock.Eq(entry.GSTNumber),
				gomock.Eq(entry.StartDate),
				gomock.Eq(entry.EndDate),
				gomock.Eq(entry.Quantity),
				gomock.Eq(entry.RatePerDay),
				gomock.Eq(entry.BillAmount),
				gomock.Eq(entry.PaymentAmount),
				gomock.Eq(entry.ItemName),
				gomock.Eq(entry.Location),
				gomock.Any(),
				gomock.Any(),
				gomock.Eq(entry.LabourNote),
				gomock.Eq(entry.RecordedAt)).
			Return(nil, nil)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.NoError(t, err)
	})

	t.Run("transaction error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		mockTx := mock_db.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		txErr := errors.New("transaction error")
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, txErr)

		err := repo.CreateTx(ctx, mockTx, testHistoryEntry())
		assert.Error(t, err)
		assert.Equal(t, txErr, err)
	})
}

func TestHistoryRepo_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps insertion order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		created := testHistoryEntry()
		created.ID = 1
		updated := testHistoryEntry()
		updated.ID = 2
		updated.Operation = repository.OperationUpdated
		expected := []*repository.HistoryEntry{created, updated}

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*[]*repository.HistoryEntry) = expected
				return nil
			})

		entries, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		assert.Equal(t, expected, entries)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		dbErr := errors.New("database error")
		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dbErr)

		entries, err := repo.GetAll(ctx)
		assert.Equal(t, dbErr, err)
		assert.Nil(t, entries)
	})
}

func TestHistoryRepo_GetByItemID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		entry := testHistoryEntry()
		entry.ID = 7
		expected := []*repository.HistoryEntry{entry}

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(42))).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*[]*repository.HistoryEntry) = expected
				return nil
			})

		entries, err := repo.GetByItemID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, expected, entries)
	})

	t.Run("empty result", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_db.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(int64(99))).
			Return(nil)

		entries, err := repo.GetByItemID(ctx, 99)
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}
