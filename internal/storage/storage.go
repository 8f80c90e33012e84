//go:generate mockgen -source ./storage.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avbaser/coldstore/internal/billing"
	"github.com/avbaser/coldstore/internal/db"
	"github.com/avbaser/coldstore/internal/repository"
)

const auditTopic = "inventory_audit"

type ItemRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, item *repository.Item) (int64, error)
	GetByID(ctx context.Context, id int64) (*repository.Item, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Item, error)
	UpdateTx(ctx context.Context, tx db.Tx, item *repository.Item) error
	DeleteTx(ctx context.Context, tx db.Tx, id int64) error
	GetAll(ctx context.Context) ([]*repository.Item, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetAll(ctx context.Context) ([]*repository.HistoryEntry, error)
	GetByItemID(ctx context.Context, itemID int64) ([]*repository.HistoryEntry, error)
}

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
	GetProcessableTasks(ctx context.Context, db db.DB, limit int) ([]*repository.OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, db db.DB, id uuid.UUID, status repository.TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}

type ItemCache interface {
	Get(id int64) (*repository.Item, bool)
	Set(item *repository.Item)
	Delete(id int64)
}

// Storage is the inventory service. Every mutation writes the item row, its
// history snapshot and an audit outbox task inside one transaction, so a
// failure leaves no half-applied state.
type Storage struct {
	db          db.DB
	itemRepo    ItemRepository
	historyRepo HistoryRepository
	outboxRepo  OutboxTaskRepository
	cache       ItemCache
	logger      *zap.Logger

	timeNow func() time.Time
}

func NewStorage(database db.DB, itemRepo ItemRepository, historyRepo HistoryRepository, outboxRepo OutboxTaskRepository, cache ItemCache, logger *zap.Logger) *Storage {
	return &Storage{
		db:          database,
		itemRepo:    itemRepo,
		historyRepo: historyRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		logger:      logger,
		timeNow:     time.Now,
	}
}

func (s *Storage) AddItem(ctx context.Context, item Item) (int64, error) {
	amount, err := billing.Compute(item.StartDate, item.EndDate, item.RatePerDay, item.Quantity)
	if err != nil {
		return 0, fmt.Errorf("cannot bill item: %w", err)
	}
	item.BillAmount = amount

	now := s.timeNow().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	repoItem := toRepoItem(item)
	repoItem.CreatedAt = now
	repoItem.UpdatedAt = now

	id, err := s.itemRepo.CreateTx(ctx, tx, repoItem)
	if err != nil {
		return 0, fmt.Errorf("failed to add item: %w", err)
	}
	repoItem.ID = id

	if err := s.appendAuditTx(ctx, tx, repoItem, repository.OperationCreated, now); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(repoItem)
	}
	s.logger.Info("item added",
		zap.Int64("item_id", id),
		zap.String("bill_amount", repoItem.BillAmount.String()))
	return id, nil
}

func (s *Storage) UpdateItem(ctx context.Context, id int64, item Item) error {
	amount, err := billing.Compute(item.StartDate, item.EndDate, item.RatePerDay, item.Quantity)
	if err != nil {
		return fmt.Errorf("cannot bill item: %w", err)
	}
	item.BillAmount = amount

	now := s.timeNow().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	existing, err := s.itemRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("item %d: %w", id, repository.ErrObjectNotFound)
		}
		return fmt.Errorf("failed to get item: %w", err)
	}

	repoItem := toRepoItem(item)
	repoItem.ID = id
	repoItem.CreatedAt = existing.CreatedAt
	repoItem.UpdatedAt = now

	if err := s.itemRepo.UpdateTx(ctx, tx, repoItem); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	if err := s.appendAuditTx(ctx, tx, repoItem, repository.OperationUpdated, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(repoItem)
	}
	s.logger.Info("item updated", zap.Int64("item_id", id))
	return nil
}

func (s *Storage) DeleteItem(ctx context.Context, id int64) error {
	now := s.timeNow().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	existing, err := s.itemRepo.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("item %d: %w", id, repository.ErrObjectNotFound)
		}
		return fmt.Errorf("failed to get item: %w", err)
	}

	if err := s.itemRepo.DeleteTx(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	// History keeps the pre-deletion snapshot; the item_id dangles on purpose.
	if err := s.appendAuditTx(ctx, tx, existing, repository.OperationDeleted, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if s.cache != nil {
		s.cache.Delete(id)
	}
	s.logger.Info("item deleted", zap.Int64("item_id", id))
	return nil
}

func (s *Storage) GetItem(ctx context.Context, id int64) (*Item, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(id); ok {
			item := fromRepoItem(cached)
			return &item, nil
		}
	}

	repoItem, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("item %d: %w", id, repository.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(repoItem)
	}
	item := fromRepoItem(repoItem)
	return &item, nil
}

func (s *Storage) ListItems(ctx context.Context) ([]Item, error) {
	repoItems, err := s.itemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]Item, 0, len(repoItems))
	for _, repoItem := range repoItems {
		items = append(items, fromRepoItem(repoItem))
	}
	return items, nil
}

func (s *Storage) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	repoEntries, err := s.historyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return fromRepoHistory(repoEntries), nil
}

func (s *Storage) GetItemHistory(ctx context.Context, itemID int64) ([]HistoryEntry, error) {
	repoEntries, err := s.historyRepo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item history: %w", err)
	}
	return fromRepoHistory(repoEntries), nil
}

// appendAuditTx writes the history snapshot and queues the Kafka copy on the
// caller's transaction.
func (s *Storage) appendAuditTx(ctx context.Context, tx db.Tx, item *repository.Item, op repository.Operation, now time.Time) error {
	entry := snapshotEntry(item, op, now)

	if err := s.historyRepo.CreateTx(ctx, tx, entry); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	payload, err := json.Marshal(repository.NewAuditPayload(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}

	task := &repository.OutboxTask{
		Payload: payload,
		Topic:   auditTopic,
	}
	if err := s.outboxRepo.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue audit task: %w", err)
	}
	return nil
}

func snapshotEntry(item *repository.Item, op repository.Operation, now time.Time) *repository.HistoryEntry {
	return &repository.HistoryEntry{
		ItemID:        item.ID,
		Operation:     op,
		Name:          item.Name,
		GSTNumber:     item.GSTNumber,
		StartDate:     item.StartDate,
		EndDate:       item.EndDate,
		Quantity:      item.Quantity,
		RatePerDay:    item.RatePerDay,
		BillAmount:    item.BillAmount,
		PaymentAmount: item.PaymentAmount,
		ItemName:      item.ItemName,
		Location:      item.Location,
		IncomingDate:  item.IncomingDate,
		OutgoingDate:  item.OutgoingDate,
		LabourNote:    item.LabourNote,
		RecordedAt:    now,
	}
}

func toRepoItem(item Item) *repository.Item {
	return &repository.Item{
		ID:            item.ID,
		Name:          item.Name,
		GSTNumber:     item.GSTNumber,
		StartDate:     item.StartDate,
		EndDate:       item.EndDate,
		Quantity:      item.Quantity,
		RatePerDay:    item.RatePerDay,
		BillAmount:    item.BillAmount,
		PaymentAmount: item.PaymentAmount,
		ItemName:      item.ItemName,
		Location:      item.Location,
		IncomingDate:  item.IncomingDate,
		OutgoingDate:  item.OutgoingDate,
		LabourNote:    item.LabourNote,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func fromRepoItem(item *repository.Item) Item {
	return Item{
		ID:            item.ID,
		Name:          item.Name,
		GSTNumber:     item.GSTNumber,
		StartDate:     item.StartDate,
		EndDate:       item.EndDate,
		Quantity:      item.Quantity,
		RatePerDay:    item.RatePerDay,
		BillAmount:    item.BillAmount,
		PaymentAmount: item.PaymentAmount,
		ItemName:      item.ItemName,
		Location:      item.Location,
		IncomingDate:  item.IncomingDate,
		OutgoingDate:  item.OutgoingDate,
		LabourNote:    item.LabourNote,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func fromRepoHistory(repoEntries []*repository.HistoryEntry) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(repoEntries))
	for _, e := range repoEntries {
		entries = append(entries, HistoryEntry{
			ID:            e.ID,
			ItemID:        e.ItemID,
			Operation:     string(e.Operation),
			Name:          e.Name,
			GSTNumber:     e.GSTNumber,
			StartDate:     e.StartDate,
			EndDate:       e.EndDate,
			Quantity:      e.Quantity,
			RatePerDay:    e.RatePerDay,
			BillAmount:    e.BillAmount,
			PaymentAmount: e.PaymentAmount,
			ItemName:      e.ItemName,
			Location:      e.Location,
			IncomingDate:  e.IncomingDate,
			OutgoingDate:  e.OutgoingDate,
			LabourNote:    e.LabourNote,
			RecordedAt:    e.RecordedAt,
		})
	}
	return entries
}
