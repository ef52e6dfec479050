package catalog

import (
	"context"
	"fmt"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/core/tx"
	"librarium/internal/domain"
	"librarium/pkg/logger"
)

// maxTreeDepth bounds parent-chain walks. Anything deeper is treated as
// a broken hierarchy.
const maxTreeDepth = 100

// BookPurger removes books (and their copies) that belong to catalogs.
// Implemented by the book repository.
type BookPurger interface {
	DeleteByCatalogs(ctx context.Context, catalogIDs []id.ID) (int64, error)
}

// Service provides catalog tree business logic.
type Service struct {
	*domain.CatalogService[*Catalog]
	repo      Repository
	books     BookPurger
	txManager tx.Manager
}

// NewService creates a catalog service.
func NewService(repo Repository, books BookPurger, txManager tx.Manager) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Catalog]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "catalog",
		}),
		repo:      repo,
		books:     books,
		txManager: txManager,
	}

	s.Hooks().OnBeforeCreate(s.checkParent)
	s.Hooks().OnBeforeUpdate(s.checkParentCycle)

	return s
}

// checkParent verifies the parent catalog exists.
func (s *Service) checkParent(ctx context.Context, c *Catalog) error {
	if c.ParentID == nil {
		return nil
	}
	exists, err := s.repo.Exists(ctx, *c.ParentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("catalog", c.ParentID.String())
	}
	return nil
}

// checkParentCycle verifies the parent exists and that re-parenting does
// not create a cycle. Walks the parent chain up from the new parent.
func (s *Service) checkParentCycle(ctx context.Context, c *Catalog) error {
	if c.ParentID == nil {
		return nil
	}

	current := *c.ParentID
	for depth := 0; depth < maxTreeDepth; depth++ {
		if current == c.ID {
			return apperror.NewValidation("catalog hierarchy cycle detected")
		}
		parent, err := s.repo.GetByID(ctx, current)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("catalog", current.String())
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}

	return apperror.NewValidation("catalog hierarchy too deep")
}

// GetChildren returns direct children of parentID (roots when nil).
func (s *Service) GetChildren(ctx context.Context, parentID *id.ID) ([]*Catalog, error) {
	return s.repo.GetChildren(ctx, parentID)
}

// GetTree returns the subtree rooted at rootID (whole forest when nil).
func (s *Service) GetTree(ctx context.Context, rootID *id.ID) ([]*Catalog, error) {
	return s.repo.GetTree(ctx, rootID)
}

// GetPath returns the chain from root to the catalog, inclusive.
func (s *Service) GetPath(ctx context.Context, catalogID id.ID) ([]*Catalog, error) {
	path, err := s.repo.GetPath(ctx, catalogID)
	if err != nil {
		return nil, err
	}
	if len(path) == 0 {
		return nil, apperror.NewNotFound("catalog", catalogID.String())
	}
	return path, nil
}

// CascadeDelete removes a catalog together with all nested catalogs,
// their books and book copies, in a single transaction. Copies with an
// open loan make the delete fail with a conflict.
func (s *Service) CascadeDelete(ctx context.Context, catalogID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ids, err := s.repo.GetSubtreeIDs(ctx, catalogID)
		if err != nil {
			return fmt.Errorf("collect subtree: %w", err)
		}
		if len(ids) == 0 {
			return apperror.NewNotFound("catalog", catalogID.String())
		}

		booksDeleted, err := s.books.DeleteByCatalogs(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete books: %w", err)
		}

		// Children first so parent FKs never dangle
		reverse(ids)
		if err := s.repo.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("delete catalogs: %w", err)
		}

		logger.Info(ctx, "catalog cascade delete",
			"catalog_id", catalogID,
			"catalogs_deleted", len(ids),
			"books_deleted", booksDeleted,
		)
		return nil
	})
}

func reverse(ids []id.ID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
