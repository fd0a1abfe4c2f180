package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a buying organization. DefaultMarginPercent feeds quote
// pricing when a quote does not override the margin.
type Customer struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	Code                 *string          `json:"code,omitempty"`
	ContactName          *string          `json:"contact_name,omitempty"`
	Email                *string          `json:"email,omitempty"`
	Phone                *string          `json:"phone,omitempty"`
	Address              *string          `json:"address,omitempty"`
	DefaultMarginPercent *decimal.Decimal `json:"default_margin_percent,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
	IsActive             *bool            `json:"is_active,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}
