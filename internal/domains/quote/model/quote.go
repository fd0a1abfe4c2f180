package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote statuses.
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// ValidStatus reports whether s is a known quote status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// Quote is a priced offer for one customer. The totals are derived from
// the items and recomputed on every item mutation, never accepted from
// the client.
type Quote struct {
	ID            uuid.UUID       `json:"id"`
	QuoteNumber   string          `json:"quote_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Status        string          `json:"status"`
	ValidUntil    *time.Time      `json:"valid_until,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	MarginAmount  decimal.Decimal `json:"margin_amount"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []QuoteItem `json:"items,omitempty"`
}

// QuoteItem is one priced line. UnitCost and UnitPrice are decimals;
// ExtendedPrice = UnitPrice * Quantity.
type QuoteItem struct {
	ID            uuid.UUID       `json:"id"`
	QuoteID       uuid.UUID       `json:"quote_id"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
