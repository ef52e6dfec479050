package issue

import (
	"context"

	"librarium/internal/core/id"
	"librarium/internal/domain"
)

// Filter narrows issue list queries.
type Filter struct {
	ReaderID    *id.ID
	CopyID      *id.ID
	OnlyOpen    bool
	OnlyOverdue bool
	Limit       int
	Offset      int
}

// DefaultFilter returns sensible defaults.
func DefaultFilter() Filter {
	return Filter{Limit: 50}
}

// Repository persists loan documents.
type Repository interface {
	Create(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, issueID id.ID) (*Issue, error)

	// GetForUpdate locks the issue row for the current transaction
	GetForUpdate(ctx context.Context, issueID id.ID) (*Issue, error)

	// GetOpenByCopy returns the open loan for a copy, not-found if none
	GetOpenByCopy(ctx context.Context, copyID id.ID) (*Issue, error)

	// Update modifies an issue (with optimistic locking)
	Update(ctx context.Context, issue *Issue) error

	List(ctx context.Context, filter Filter) (domain.ListResult[*Issue], error)
}
