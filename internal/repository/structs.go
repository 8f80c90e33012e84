package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrObjectNotFound = errors.New("not found")

// Item is one stored lot with its billing terms. BillAmount is derived from
// the dates, rate and quantity; it is never written independently.
type Item struct {
	ID            int64           `db:"id"`
	Name          string          `db:"name"`
	GSTNumber     string          `db:"gst_number"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	Quantity      int64           `db:"quantity"`
	RatePerDay    decimal.Decimal `db:"rate_per_day"`
	BillAmount    decimal.Decimal `db:"bill_amount"`
	PaymentAmount decimal.Decimal `db:"payment_amount"`
	ItemName      string          `db:"item_name"`
	Location      string          `db:"location"`
	IncomingDate  *time.Time      `db:"incoming_date"`
	OutgoingDate  *time.Time      `db:"outgoing_date"`
	LabourNote    string          `db:"labour_note"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
	OperationDeleted Operation = "deleted"
)

// HistoryEntry is an immutable snapshot of an item taken on every mutation.
// ItemID keeps referencing the item after it is deleted.
type HistoryEntry struct {
	ID            int64           `db:"id"`
	ItemID        int64           `db:"item_id"`
	Operation     Operation       `db:"operation"`
	Name          string          `db:"name"`
	GSTNumber     string          `db:"gst_number"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	Quantity      int64           `db:"quantity"`
	RatePerDay    decimal.Decimal `db:"rate_per_day"`
	BillAmount    decimal.Decimal `db:"bill_amount"`
	PaymentAmount decimal.Decimal `db:"payment_amount"`
	ItemName      string          `db:"item_name"`
	Location      string          `db:"location"`
	IncomingDate  *time.Time      `db:"incoming_date"`
	OutgoingDate  *time.Time      `db:"outgoing_date"`
	LabourNote    string          `db:"labour_note"`
	RecordedAt    time.Time       `db:"recorded_at"`
}
