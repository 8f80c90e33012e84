package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/avbaser/coldstore/internal/db"
	"github.com/avbaser/coldstore/internal/repository"
	"github.com/avbaser/coldstore/internal/storage"
)

type ItemRepo struct {
	db db.DB
}

func NewItemRepo(db db.DB) storage.ItemRepository {
	return &ItemRepo{db: db}
}

const itemColumns = `
            name, gst_number, start_date, end_date, quantity, rate_per_day,
            bill_amount, payment_amount, item_name, location, incoming_date,
            outgoing_date, labour_note, created_at, updated_at`

func (r *ItemRepo) CreateTx(ctx context.Context, tx db.Tx, item *repository.Item) (int64, error) {
	var id int64
	err := tx.Get(ctx, &id, `
        INSERT INTO inventory (`+itemColumns+`
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING id
    `, item.Name, item.GSTNumber, item.StartDate, item.EndDate, item.Quantity,
		item.RatePerDay, item.BillAmount, item.PaymentAmount, item.ItemName,
		item.Location, item.IncomingDate, item.OutgoingDate, item.LabourNote,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*repository.Item, error) {
	var item repository.Item
	err := r.db.Get(ctx, &item, "SELECT * FROM inventory WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &item, nil
}

// GetByIDTx locks the row for the rest of the transaction.
func (r *ItemRepo) GetByIDTx(ctx context.Context, tx db.Tx, id int64) (*repository.Item, error) {
	var item repository.Item
	err := tx.Get(ctx, &item, "SELECT * FROM inventory WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepo) UpdateTx(ctx context.Context, tx db.Tx, item *repository.Item) error {
	_, err := tx.Exec(ctx, `
        UPDATE inventory
        SET
            name = $1,
            gst_number = $2,
            start_date = $3,
            end_date = $4,
            quantity = $5,
            rate_per_day = $6,
            bill_amount = $7,
            payment_amount = $8,
            item_name = $9,
            location = $10,
            incoming_date = $11,
            outgoing_date = $12,
            labour_note = $13,
            updated_at = $14
        WHERE id = $15
    `, item.Name, item.GSTNumber, item.StartDate, item.EndDate, item.Quantity,
		item.RatePerDay, item.BillAmount, item.PaymentAmount, item.ItemName,
		item.Location, item.IncomingDate, item.OutgoingDate, item.LabourNote,
		item.UpdatedAt, item.ID)
	return err
}

func (r *ItemRepo) DeleteTx(ctx context.Context, tx db.Tx, id int64) error {
	_, err := tx.Exec(ctx, "DELETE FROM inventory WHERE id = $1", id)
	return err
}

func (r *ItemRepo) GetAll(ctx context.Context) ([]*repository.Item, error) {
	var items []*repository.Item
	err := r.db.Select(ctx, &items, "SELECT * FROM inventory ORDER BY id ASC")
	return items, err
}
