package book

import (
	"context"

	"librarium/internal/core/id"
	"librarium/internal/domain"
)

// Repository extends the generic CRUD contract with copy management
// and availability queries.
type Repository interface {
	domain.Repository[*Book]

	// GetByISBN retrieves a book by its ISBN
	GetByISBN(ctx context.Context, isbn string) (*Book, error)

	// ListByCatalog retrieves books of a single catalog
	ListByCatalog(ctx context.Context, catalogID id.ID, filter domain.ListFilter) (domain.ListResult[*Book], error)

	// DeleteByCatalogs removes books and their copies for the given
	// catalogs, returning the number of books removed
	DeleteByCatalogs(ctx context.Context, catalogIDs []id.ID) (int64, error)

	// --- Copies ---

	CreateCopy(ctx context.Context, copy *Copy) error
	GetCopyByID(ctx context.Context, copyID id.ID) (*Copy, error)

	// GetCopyForUpdate locks the copy row for the current transaction
	GetCopyForUpdate(ctx context.Context, copyID id.ID) (*Copy, error)

	UpdateCopy(ctx context.Context, copy *Copy) error
	DeleteCopy(ctx context.Context, copyID id.ID) error
	ListCopies(ctx context.Context, bookID id.ID) ([]*Copy, error)

	// CountCopies returns total copies of a book
	CountCopies(ctx context.Context, bookID id.ID) (int64, error)

	// CountAvailableCopies returns copies without an open loan
	CountAvailableCopies(ctx context.Context, bookID id.ID) (int64, error)

	// MaxCopySeq returns the highest inventory sequence used for a book
	MaxCopySeq(ctx context.Context, bookID id.ID) (int, error)
}
