package model

import "errors"

var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrDuplicateCode        = errors.New("a customer with this code already exists")
	ErrCustomerNameRequired = errors.New("customer name is required")
)
