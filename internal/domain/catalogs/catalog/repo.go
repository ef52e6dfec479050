package catalog

import (
	"context"

	"librarium/internal/core/id"
	"librarium/internal/domain"
)

// Repository extends the generic CRUD contract with tree operations.
type Repository interface {
	domain.Repository[*Catalog]

	// GetChildren returns direct children of parentID (roots when nil)
	GetChildren(ctx context.Context, parentID *id.ID) ([]*Catalog, error)

	// GetTree returns the subtree rooted at rootID (whole forest when nil),
	// parents before children
	GetTree(ctx context.Context, rootID *id.ID) ([]*Catalog, error)

	// GetPath returns the chain from root to the catalog, inclusive
	GetPath(ctx context.Context, catalogID id.ID) ([]*Catalog, error)

	// GetSubtreeIDs returns ids of the subtree rooted at rootID,
	// parents before children, root first
	GetSubtreeIDs(ctx context.Context, rootID id.ID) ([]id.ID, error)

	// DeleteMany removes catalogs by id in the given order
	DeleteMany(ctx context.Context, ids []id.ID) error
}
