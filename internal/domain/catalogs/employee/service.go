package employee

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"librarium/internal/core/apperror"
	"librarium/internal/core/tx"
	"librarium/internal/domain"
)

// Repository extends the generic CRUD contract with login lookups.
type Repository interface {
	domain.Repository[*Employee]
	GetByUsername(ctx context.Context, username string) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
}

// Service provides employee business logic.
type Service struct {
	*domain.CatalogService[*Employee]
	repo Repository
}

// NewService creates an employee service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "employee",
		}),
		repo: repo,
	}

	s.Hooks().OnBeforeCreate(s.checkUnique)
	s.Hooks().OnBeforeUpdate(s.checkUnique)

	return s
}

func (s *Service) checkUnique(ctx context.Context, e *Employee) error {
	byUsername, err := s.repo.GetByUsername(ctx, e.Username)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if byUsername != nil && byUsername.ID != e.ID {
		return apperror.NewDuplicate("employee", "username", e.Username)
	}

	byEmail, err := s.repo.GetByEmail(ctx, e.Email)
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}
	if byEmail != nil && byEmail.ID != e.ID {
		return apperror.NewDuplicate("employee", "email", e.Email)
	}

	return nil
}

// GetByUsername retrieves an employee by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Employee, error) {
	e, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("employee", username)
		}
		return nil, err
	}
	return e, nil
}

// SetPassword hashes and stores the password on the entity.
// The caller persists the change via Create or Update.
func SetPassword(e *Employee, password string) error {
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	e.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash.
func CheckPassword(e *Employee, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}
