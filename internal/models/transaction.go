package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Supported currencies.
const (
	USD = "USD"
	EUR = "EUR"
	UAH = "UAH"
	GBP = "GBP"
)

// DefaultCurrency is applied when a create request omits the currency.
const DefaultCurrency = UAH

// Transaction types.
const (
	TypePayment = "PAYMENT"
	TypeRefund  = "REFUND"
)

// Transaction statuses.
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Payment methods.
const (
	MethodCard   = "CARD"
	MethodCash   = "CASH"
	MethodPaypal = "PAYPAL"
)

// Metadata is an opaque key-value payload attached to a transaction.
// It is stored as JSONB and returned verbatim, never interpreted.
type Metadata map[string]any

// Value implements driver.Valuer for JSONB storage.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported metadata source type")
	}
}

// TransactionDB represents a row of the transactions table.
type TransactionDB struct {
	TransactionID        uuid.UUID `db:"transaction_id"`        // TransactionID is the generated primary key.
	OrderID              uuid.UUID `db:"order_id"`              // OrderID references an order owned by the external orders service.
	Amount               float64   `db:"amount"`                // Amount is strictly positive.
	Currency             string    `db:"currency"`              // Currency is one of USD, EUR, UAH, GBP.
	Type                 string    `db:"type"`                  // Type is PAYMENT or REFUND.
	Status               string    `db:"status"`                // Status is PENDING, COMPLETED or FAILED.
	PaymentMethod        string    `db:"payment_method"`        // PaymentMethod is CARD, CASH or PAYPAL.
	TransactionReference *string   `db:"transaction_reference"` // TransactionReference is a free-form external reference.
	Description          *string   `db:"description"`
	TransactionTime      time.Time `db:"transaction_time"` // TransactionTime may be caller-supplied, defaults to creation time.
	ProcessedBy          *string   `db:"processed_by"`
	Metadata             Metadata  `db:"metadata"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}
