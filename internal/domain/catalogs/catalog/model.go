// Package catalog implements hierarchical book catalogs.
package catalog

import (
	"context"
	"strings"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
	"librarium/internal/core/id"
)

// Catalog is a node in the catalog tree. A catalog groups books and may
// nest under a parent catalog.
type Catalog struct {
	entity.BaseEntity
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	ParentID    *id.ID  `db:"parent_id" json:"parent_id,omitempty"`
}

// New creates a catalog with initialized base fields.
func New(name string, parentID *id.ID) *Catalog {
	return &Catalog{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		ParentID:   parentID,
	}
}

// Validate checks catalog invariants.
func (c *Catalog) Validate(_ context.Context) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return apperror.NewValidation("catalog name is required")
	}
	if len(name) > 255 {
		return apperror.NewValidation("catalog name must not exceed 255 characters")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return apperror.NewValidation("catalog cannot be its own parent")
	}
	return nil
}
