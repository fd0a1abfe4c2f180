package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"partshub-backend/internal/domains/customer/model"
	"partshub-backend/internal/domains/customer/repository"
)

type ServiceInterface interface {
	List(ctx context.Context, req model.ListCustomersRequest) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &customerService{repo: repo}
}

func (s *customerService) List(ctx context.Context, req model.ListCustomersRequest) ([]model.Customer, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	return s.repo.List(ctx, req)
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *customerService) Create(ctx context.Context, req model.CreateCustomerRequest) (*model.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, model.ErrCustomerNameRequired
	}
	return s.repo.Create(ctx, req)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req model.UpdateCustomerRequest) (*model.Customer, error) {
	// Name can be changed but never cleared.
	if req.Name.Present {
		if !req.Name.Valid || strings.TrimSpace(req.Name.Value) == "" {
			return nil, model.ErrCustomerNameRequired
		}
	}
	return s.repo.Update(ctx, id, req)
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
