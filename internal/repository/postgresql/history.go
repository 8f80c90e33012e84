package postgresql

import (
	"context"

	"github.com/avbaser/coldstore/internal/db"
	"github.com/avbaser/coldstore/internal/repository"
	"github.com/avbaser/coldstore/internal/storage"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) storage.HistoryRepository {
	return &HistoryRepo{db: db}
}

const historyColumns = `
            item_id, operation, name, gst_number, start_date, end_date,
            quantity, rate_per_day, bill_amount, payment_amount, item_name,
            location, incoming_date, outgoing_date, labour_note, recorded_at`

func (r *HistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO inventory_history (`+historyColumns+`
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `, entry.ItemID, entry.Operation, entry.Name, entry.GSTNumber,
		entry.StartDate, entry.EndDate, entry.Quantity, entry.RatePerDay,
		entry.BillAmount, entry.PaymentAmount, entry.ItemName, entry.Location,
		entry.IncomingDate, entry.OutgoingDate, entry.LabourNote, entry.RecordedAt)
	return err
}

func (r *HistoryRepo) GetAll(ctx context.Context) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM inventory_history
        ORDER BY id ASC
    `)
	return entries, err
}

func (r *HistoryRepo) GetByItemID(ctx context.Context, itemID int64) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT * FROM inventory_history
        WHERE item_id = $1
        ORDER BY id ASC
    `, itemID)
	return entries, err
}
