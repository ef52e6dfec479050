// Package book implements books and their physical copies.
package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
	"librarium/internal/core/id"
)

// Book is a bibliographic record. Physical instances are tracked
// separately as copies.
type Book struct {
	entity.BaseEntity
	Title       string  `db:"title" json:"title"`
	Author      string  `db:"author" json:"author"`
	Year        int     `db:"year" json:"year"`
	ISBN        *string `db:"isbn" json:"isbn,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`
	CatalogID   id.ID   `db:"catalog_id" json:"catalog_id"`
}

// Validate checks book invariants.
func (b *Book) Validate(_ context.Context) error {
	if strings.TrimSpace(b.Title) == "" {
		return apperror.NewValidation("book title is required")
	}
	if len(b.Title) > 500 {
		return apperror.NewValidation("book title must not exceed 500 characters")
	}
	if strings.TrimSpace(b.Author) == "" {
		return apperror.NewValidation("book author is required")
	}
	// Upper bound allows next-year publications already in print
	maxYear := time.Now().UTC().Year() + 1
	if b.Year < 0 || b.Year > maxYear {
		return apperror.NewValidation(fmt.Sprintf("book year must be between 0 and %d", maxYear))
	}
	if id.IsNil(b.CatalogID) {
		return apperror.NewValidation("book catalog is required")
	}
	return nil
}

// CopyStatus is the lifecycle state of a physical copy.
type CopyStatus string

const (
	CopyStatusAvailable CopyStatus = "available"
	CopyStatusIssued    CopyStatus = "issued"
	CopyStatusLost      CopyStatus = "lost"
	CopyStatusRepair    CopyStatus = "repair"
)

// Valid reports whether the status is a known copy state.
func (s CopyStatus) Valid() bool {
	switch s {
	case CopyStatusAvailable, CopyStatusIssued, CopyStatusLost, CopyStatusRepair:
		return true
	}
	return false
}

// Copy is a physical instance of a book with its own inventory number.
type Copy struct {
	entity.BaseEntity
	BookID          id.ID      `db:"book_id" json:"book_id"`
	InventoryNumber string     `db:"inventory_number" json:"inventory_number"`
	Status          CopyStatus `db:"status" json:"status"`
	Barcode         *string    `db:"barcode" json:"barcode,omitempty"`
	AcquiredDate    *time.Time `db:"acquired_date" json:"acquired_date,omitempty"`
}

// NewCopy creates a copy with a generated inventory number.
// seq is 1-based within the book.
func NewCopy(bookID id.ID, seq int) *Copy {
	return &Copy{
		BaseEntity:      entity.NewBaseEntity(),
		BookID:          bookID,
		InventoryNumber: InventoryNumber(bookID, seq),
		Status:          CopyStatusAvailable,
	}
}

// InventoryNumber builds the canonical inventory number for a copy.
func InventoryNumber(bookID id.ID, seq int) string {
	return fmt.Sprintf("BOOK-%s-%03d", bookID, seq)
}

// Validate checks copy invariants.
func (c *Copy) Validate(_ context.Context) error {
	if id.IsNil(c.BookID) {
		return apperror.NewValidation("copy book is required")
	}
	if strings.TrimSpace(c.InventoryNumber) == "" {
		return apperror.NewValidation("copy inventory number is required")
	}
	if !c.Status.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown copy status %q", c.Status))
	}
	return nil
}
