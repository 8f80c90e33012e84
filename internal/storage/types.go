package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	GSTNumber     string          `json:"gst_number"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Quantity      int64           `json:"quantity"`
	RatePerDay    decimal.Decimal `json:"rate_per_day"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	ItemName      string          `json:"item_name,omitempty"`
	Location      string          `json:"location,omitempty"`
	IncomingDate  *time.Time      `json:"incoming_date,omitempty"`
	OutgoingDate  *time.Time      `json:"outgoing_date,omitempty"`
	LabourNote    string          `json:"labour_note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type HistoryEntry struct {
	ID            int64           `json:"id"`
	ItemID        int64           `json:"item_id"`
	Operation     string          `json:"operation"`
	Name          string          `json:"name"`
	GSTNumber     string          `json:"gst_number"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Quantity      int64           `json:"quantity"`
	RatePerDay    decimal.Decimal `json:"rate_per_day"`
	BillAmount    decimal.Decimal `json:"bill_amount"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	ItemName      string          `json:"item_name,omitempty"`
	Location      string          `json:"location,omitempty"`
	IncomingDate  *time.Time      `json:"incoming_date,omitempty"`
	OutgoingDate  *time.Time      `json:"outgoing_date,omitempty"`
	LabourNote    string          `json:"labour_note,omitempty"`
	RecordedAt    time.Time       `json:"recorded_at"`
}
