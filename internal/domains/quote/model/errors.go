package model

import "errors"

var (
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrQuoteItemNotFound = errors.New("quote item not found")
	ErrInvalidStatus     = errors.New("quote status must be draft, sent, accepted, rejected or expired")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrCustomerRequired  = errors.New("customer_id is required")
)
