package service

import (
	"context"

	"github.com/google/uuid"

	"partshub-backend/internal/domains/crossref/model"
	"partshub-backend/internal/domains/crossref/repository"
)

// ServiceInterface covers reads and single-row deletes; writes go
// through the import pipeline so every mutation is audited.
type ServiceInterface interface {
	List(ctx context.Context, req model.ListRequest) ([]model.CrossReference, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CrossReference, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type crossRefService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &crossRefService{repo: repo}
}

func (s *crossRefService) List(ctx context.Context, req model.ListRequest) ([]model.CrossReference, int, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}
	return s.repo.List(ctx, req)
}

func (s *crossRefService) GetByID(ctx context.Context, id uuid.UUID) (*model.CrossReference, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *crossRefService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
