// Package issue implements the loan ledger document.
package issue

import (
	"context"
	"time"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
	"librarium/internal/core/id"
)

// Issue records a single loan of a book copy to a reader.
// The copy, the reader and the issuing employee are fixed at issue time;
// the receiving employee is set on return and may differ.
type Issue struct {
	entity.BaseEntity
	CopyID             id.ID      `db:"copy_id" json:"copy_id"`
	BookID             id.ID      `db:"book_id" json:"book_id"`
	ReaderID           id.ID      `db:"reader_id" json:"reader_id"`
	EmployeeIssuedID   id.ID      `db:"employee_issued_id" json:"employee_issued_id"`
	EmployeeReceivedID *id.ID     `db:"employee_received_id" json:"employee_received_id,omitempty"`
	IssueDate          time.Time  `db:"issue_date" json:"issue_date"`
	DueDate            time.Time  `db:"due_date" json:"due_date"`
	ReturnDate         *time.Time `db:"return_date" json:"return_date,omitempty"`
	IsReturned         bool       `db:"is_returned" json:"is_returned"`
	IsExtended         bool       `db:"is_extended" json:"is_extended"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
}

// New creates an open issue with initialized base fields.
func New(copyID, readerID, employeeID id.ID, dueDate time.Time) *Issue {
	return &Issue{
		BaseEntity:       entity.NewBaseEntity(),
		CopyID:           copyID,
		ReaderID:         readerID,
		EmployeeIssuedID: employeeID,
		IssueDate:        time.Now().UTC(),
		DueDate:          dueDate,
	}
}

// Validate checks issue invariants.
func (i *Issue) Validate(_ context.Context) error {
	if id.IsNil(i.CopyID) {
		return apperror.NewValidation("issue copy is required")
	}
	if id.IsNil(i.ReaderID) {
		return apperror.NewValidation("issue reader is required")
	}
	if id.IsNil(i.EmployeeIssuedID) {
		return apperror.NewValidation("issuing employee is required")
	}
	if i.DueDate.Before(truncateToDay(i.IssueDate)) {
		return apperror.NewValidation("due date must not be before issue date")
	}
	if i.IsReturned && i.ReturnDate == nil {
		return apperror.NewValidation("returned issue must have a return date")
	}
	return nil
}

// Overdue reports whether the issue is open past its due date at the given moment.
func (i *Issue) Overdue(now time.Time) bool {
	return !i.IsReturned && now.After(i.DueDate)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
