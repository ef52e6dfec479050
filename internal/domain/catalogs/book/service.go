package book

import (
	"context"
	"fmt"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/core/tx"
	"librarium/internal/domain"
)

// CatalogChecker verifies catalog existence. Implemented by the catalog
// repository.
type CatalogChecker interface {
	Exists(ctx context.Context, catalogID id.ID) (bool, error)
}

// WithCounts bundles a book with its copy counters.
type WithCounts struct {
	*Book
	CopiesTotal     int64 `json:"copies_total"`
	CopiesAvailable int64 `json:"copies_available"`
}

// Service provides book and copy business logic.
type Service struct {
	*domain.CatalogService[*Book]
	repo      Repository
	catalogs  CatalogChecker
	txManager tx.Manager
}

// NewService creates a book service.
func NewService(repo Repository, catalogs CatalogChecker, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Book]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "book",
		}),
		repo:      repo,
		catalogs:  catalogs,
		txManager: txManager,
	}

	s.Hooks().OnBeforeCreate(s.checkReferences)
	s.Hooks().OnBeforeUpdate(s.checkReferences)

	return s
}

// checkReferences verifies the catalog exists and the ISBN is unique.
func (s *Service) checkReferences(ctx context.Context, b *Book) error {
	exists, err := s.catalogs.Exists(ctx, b.CatalogID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("catalog", b.CatalogID.String())
	}

	if b.ISBN != nil && *b.ISBN != "" {
		other, err := s.repo.GetByISBN(ctx, *b.ISBN)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if other != nil && other.ID != b.ID {
			return apperror.NewDuplicate("book", "isbn", *b.ISBN)
		}
	}

	return nil
}

// CreateWithCopies creates a book together with copiesCount physical
// copies, numbered sequentially, in one transaction.
func (s *Service) CreateWithCopies(ctx context.Context, b *Book, copiesCount int) error {
	if copiesCount < 0 {
		return apperror.NewValidation("copies count must not be negative")
	}
	if err := b.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, b); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		for seq := 1; seq <= copiesCount; seq++ {
			if err := s.repo.CreateCopy(ctx, NewCopy(b.ID, seq)); err != nil {
				return fmt.Errorf("create copy %d: %w", seq, err)
			}
		}
		return nil
	})
}

// GetWithCounts returns a book with total and available copy counts.
// Counts are read in one transaction so they are mutually consistent.
func (s *Service) GetWithCounts(ctx context.Context, bookID id.ID) (*WithCounts, error) {
	var result *WithCounts
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetByID(ctx, bookID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("book", bookID.String())
			}
			return err
		}

		total, err := s.repo.CountCopies(ctx, bookID)
		if err != nil {
			return err
		}
		available, err := s.repo.CountAvailableCopies(ctx, bookID)
		if err != nil {
			return err
		}

		result = &WithCounts{Book: b, CopiesTotal: total, CopiesAvailable: available}
		return nil
	})
	return result, err
}

// AvailableCount returns the number of copies without an open loan.
func (s *Service) AvailableCount(ctx context.Context, bookID id.ID) (int64, error) {
	exists, err := s.repo.Exists(ctx, bookID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperror.NewNotFound("book", bookID.String())
	}
	return s.repo.CountAvailableCopies(ctx, bookID)
}

// ListByCatalog retrieves books of a single catalog.
func (s *Service) ListByCatalog(ctx context.Context, catalogID id.ID, filter domain.ListFilter) (domain.ListResult[*Book], error) {
	return s.repo.ListByCatalog(ctx, catalogID, filter)
}

// AddCopy creates one more copy of a book, continuing the inventory
// number sequence.
func (s *Service) AddCopy(ctx context.Context, bookID id.ID) (*Copy, error) {
	var copy *Copy
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, bookID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("book", bookID.String())
		}

		seq, err := s.repo.MaxCopySeq(ctx, bookID)
		if err != nil {
			return err
		}

		copy = NewCopy(bookID, seq+1)
		return s.repo.CreateCopy(ctx, copy)
	})
	return copy, err
}

// GetCopy retrieves a copy by ID.
func (s *Service) GetCopy(ctx context.Context, copyID id.ID) (*Copy, error) {
	copy, err := s.repo.GetCopyByID(ctx, copyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("book copy", copyID.String())
		}
		return nil, err
	}
	return copy, nil
}

// ListCopies returns all copies of a book.
func (s *Service) ListCopies(ctx context.Context, bookID id.ID) ([]*Copy, error) {
	exists, err := s.repo.Exists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("book", bookID.String())
	}
	return s.repo.ListCopies(ctx, bookID)
}

// SetCopyStatus changes a copy's state manually. Issued state is owned
// by the loan ledger: it cannot be entered here, and an issued copy can
// only be marked lost.
func (s *Service) SetCopyStatus(ctx context.Context, copyID id.ID, status CopyStatus) (*Copy, error) {
	if !status.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown copy status %q", status))
	}
	if status == CopyStatusIssued {
		return nil, apperror.NewValidation("copy status 'issued' is set by issuing, not directly")
	}

	var copy *Copy
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetCopyForUpdate(ctx, copyID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("book copy", copyID.String())
			}
			return err
		}

		if c.Status == CopyStatusIssued && status != CopyStatusLost {
			return apperror.NewConflict("copy is issued, return it first")
		}

		c.Status = status
		c.Touch()
		if err := s.repo.UpdateCopy(ctx, c); err != nil {
			return err
		}
		copy = c
		return nil
	})
	return copy, err
}

// DeleteCopy removes a copy. Copies referenced by loan history cannot
// be removed and produce a conflict.
func (s *Service) DeleteCopy(ctx context.Context, copyID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := s.repo.GetCopyForUpdate(ctx, copyID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("book copy", copyID.String())
			}
			return err
		}
		if c.Status == CopyStatusIssued {
			return apperror.NewConflict("copy is issued, return it first")
		}
		return s.repo.DeleteCopy(ctx, copyID)
	})
}
