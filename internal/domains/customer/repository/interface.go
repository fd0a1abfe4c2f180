package repository

import (
	"context"

	"github.com/google/uuid"

	"partshub-backend/internal/domains/customer/model"
)

type RepositoryInterface interface {
	List(ctx context.Context, req model.ListCustomersRequest) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
