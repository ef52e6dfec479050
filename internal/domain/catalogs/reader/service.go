package reader

import (
	"context"

	"librarium/internal/core/apperror"
	"librarium/internal/core/tx"
	"librarium/internal/domain"
)

// Repository extends the generic CRUD contract with email lookup.
type Repository interface {
	domain.Repository[*Reader]
	GetByEmail(ctx context.Context, email string) (*Reader, error)
}

// Service provides reader business logic.
type Service struct {
	*domain.CatalogService[*Reader]
	repo Repository
}

// NewService creates a reader service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Reader]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "reader",
		}),
		repo: repo,
	}

	s.Hooks().OnBeforeCreate(s.checkEmailUnique)
	s.Hooks().OnBeforeUpdate(s.checkEmailUnique)

	return s
}

func (s *Service) checkEmailUnique(ctx context.Context, r *Reader) error {
	if r.Email == nil || *r.Email == "" {
		return nil
	}
	other, err := s.repo.GetByEmail(ctx, *r.Email)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if other != nil && other.ID != r.ID {
		return apperror.NewDuplicate("reader", "email", *r.Email)
	}
	return nil
}

// Deactivate marks the reader inactive. Inactive readers cannot borrow.
func (s *Service) Deactivate(ctx context.Context, r *Reader) error {
	r.IsActive = false
	r.Touch()
	return s.Update(ctx, r)
}
