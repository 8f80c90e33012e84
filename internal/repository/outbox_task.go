package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDone       TaskStatus = "DONE"
)

type OutboxTask struct {
	ID          uuid.UUID       `db:"id"`
	Status      TaskStatus      `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Topic       string          `db:"topic"`
	Attempts    int             `db:"attempts"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at"`
}

// AuditPayload is the Kafka-bound copy of a history entry. Dates go out as
// YYYY-MM-DD, the timestamp as YYYY-MM-DD HH:MM:SS, money as plain decimal
// strings.
type AuditPayload struct {
	Operation     string `json:"operation"`
	ItemID        int64  `json:"item_id"`
	Name          string `json:"name"`
	GSTNumber     string `json:"gst_number"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Quantity      int64  `json:"quantity"`
	RatePerDay    string `json:"rate_per_day"`
	BillAmount    string `json:"bill_amount"`
	PaymentAmount string `json:"payment_amount"`
	ItemName      string `json:"item_name,omitempty"`
	Location      string `json:"location,omitempty"`
	LabourNote    string `json:"labour_note,omitempty"`
	RecordedAt    string `json:"recorded_at"`
}

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

func NewAuditPayload(entry *HistoryEntry) AuditPayload {
	return AuditPayload{
		Operation:     string(entry.Operation),
		ItemID:        entry.ItemID,
		Name:          entry.Name,
		GSTNumber:     entry.GSTNumber,
		StartDate:     entry.StartDate.Format(DateLayout),
		EndDate:       entry.EndDate.Format(DateLayout),
		Quantity:      entry.Quantity,
		RatePerDay:    entry.RatePerDay.String(),
		BillAmount:    entry.BillAmount.String(),
		PaymentAmount: entry.PaymentAmount.String(),
		ItemName:      entry.ItemName,
		Location:      entry.Location,
		LabourNote:    entry.LabourNote,
		RecordedAt:    entry.RecordedAt.Format(TimestampLayout),
	}
}
