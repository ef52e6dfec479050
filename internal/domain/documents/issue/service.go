package issue

import (
	"context"
	"time"

	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/core/tx"
	"librarium/internal/domain"
	"librarium/internal/domain/catalogs/book"
	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/domain/catalogs/reader"
	"librarium/pkg/logger"
)

// CopyStore is the slice of the book repository the ledger needs:
// locking a copy and flipping its status inside the loan transaction.
type CopyStore interface {
	GetCopyForUpdate(ctx context.Context, copyID id.ID) (*book.Copy, error)
	UpdateCopy(ctx context.Context, copy *book.Copy) error
}

// ReaderStore resolves readers for issue checks.
type ReaderStore interface {
	GetByID(ctx context.Context, readerID id.ID) (*reader.Reader, error)
}

// EmployeeStore resolves employees for issue and return checks.
type EmployeeStore interface {
	GetByID(ctx context.Context, employeeID id.ID) (*employee.Employee, error)
}

// Auditor records loan lifecycle changes.
type Auditor interface {
	LogAction(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}

// IssueRequest carries the parameters of a new loan.
type IssueRequest struct {
	CopyID     id.ID
	ReaderID   id.ID
	EmployeeID id.ID
	DueDate    time.Time
	Notes      *string
}

// ReturnRequest carries the parameters of a return.
type ReturnRequest struct {
	EmployeeID id.ID
	ReturnDate *time.Time // defaults to now
}

// ExtendRequest carries the parameters of a due date extension.
type ExtendRequest struct {
	NewDueDate time.Time
}

// Service implements the loan ledger. All state transitions run inside
// a transaction with the copy or issue row locked, so concurrent
// operations on the same copy serialize and the loser gets a conflict.
type Service struct {
	repo      Repository
	copies    CopyStore
	readers   ReaderStore
	employees EmployeeStore
	txManager tx.Manager
	audit     Auditor
}

// NewService creates a loan ledger service. audit may be nil.
func NewService(
	repo Repository,
	copies CopyStore,
	readers ReaderStore,
	employees EmployeeStore,
	txManager tx.Manager,
	audit Auditor,
) *Service {
	return &Service{
		repo:      repo,
		copies:    copies,
		readers:   readers,
		employees: employees,
		txManager: txManager,
		audit:     audit,
	}
}

// Issue lends a copy to a reader. The copy row is locked for the whole
// transaction; a copy that is not available produces a conflict.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Issue, error) {
	today := truncateToDay(time.Now().UTC())
	if req.DueDate.Before(today) {
		return nil, apperror.NewValidation("due date must not be in the past")
	}

	var doc *Issue
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		copy, err := s.copies.GetCopyForUpdate(ctx, req.CopyID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("book copy", req.CopyID.String())
			}
			return err
		}
		if copy.Status != book.CopyStatusAvailable {
			return apperror.NewConflict("copy is not available").
				WithDetail("copy_id", req.CopyID.String()).
				WithDetail("status", string(copy.Status))
		}

		rdr, err := s.readers.GetByID(ctx, req.ReaderID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("reader", req.ReaderID.String())
			}
			return err
		}
		if !rdr.IsActive {
			return apperror.NewConflict("reader is not active").
				WithDetail("reader_id", req.ReaderID.String())
		}

		emp, err := s.employees.GetByID(ctx, req.EmployeeID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("employee", req.EmployeeID.String())
			}
			return err
		}
		if !emp.IsActive {
			return apperror.NewConflict("employee is not active").
				WithDetail("employee_id", req.EmployeeID.String())
		}

		doc = New(req.CopyID, req.ReaderID, req.EmployeeID, req.DueDate)
		doc.BookID = copy.BookID
		doc.Notes = req.Notes
		if err := doc.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return err
		}

		copy.Status = book.CopyStatusIssued
		copy.Touch()
		if err := s.copies.UpdateCopy(ctx, copy); err != nil {
			return err
		}

		s.logAction(ctx, doc.ID, "issue", map[string]any{
			"copy_id":   req.CopyID.String(),
			"reader_id": req.ReaderID.String(),
			"due_date":  req.DueDate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "copy issued",
		"issue_id", doc.ID,
		"copy_id", doc.CopyID,
		"reader_id", doc.ReaderID,
	)
	return doc, nil
}

// Return closes an open loan and makes the copy available again.
// Returning an already returned loan produces a conflict.
func (s *Service) Return(ctx context.Context, issueID id.ID, req ReturnRequest) (*Issue, error) {
	var doc *Issue
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, issueID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("issue", issueID.String())
			}
			return err
		}
		if d.IsReturned {
			return apperror.NewConflict("issue is already returned").
				WithDetail("issue_id", issueID.String())
		}

		emp, err := s.employees.GetByID(ctx, req.EmployeeID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("employee", req.EmployeeID.String())
			}
			return err
		}
		if !emp.IsActive {
			return apperror.NewConflict("employee is not active").
				WithDetail("employee_id", req.EmployeeID.String())
		}

		returnDate := time.Now().UTC()
		if req.ReturnDate != nil {
			returnDate = req.ReturnDate.UTC()
		}
		if returnDate.Before(d.IssueDate) {
			return apperror.NewValidation("return date must not be before issue date")
		}

		d.ReturnDate = &returnDate
		d.IsReturned = true
		d.EmployeeReceivedID = &req.EmployeeID
		d.Touch()
		if err := s.repo.Update(ctx, d); err != nil {
			return err
		}

		copy, err := s.copies.GetCopyForUpdate(ctx, d.CopyID)
		if err != nil {
			return err
		}
		// A copy marked lost while on loan stays lost after return
		if copy.Status == book.CopyStatusIssued {
			copy.Status = book.CopyStatusAvailable
			copy.Touch()
			if err := s.copies.UpdateCopy(ctx, copy); err != nil {
				return err
			}
		}

		s.logAction(ctx, d.ID, "return", map[string]any{
			"copy_id":     d.CopyID.String(),
			"return_date": returnDate,
		})
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "copy returned", "issue_id", doc.ID, "copy_id", doc.CopyID)
	return doc, nil
}

// Extend moves the due date of an open loan forward. Shortening the
// loan or extending a closed loan is rejected.
func (s *Service) Extend(ctx context.Context, issueID id.ID, req ExtendRequest) (*Issue, error) {
	var doc *Issue
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		d, err := s.repo.GetForUpdate(ctx, issueID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("issue", issueID.String())
			}
			return err
		}
		if d.IsReturned {
			return apperror.NewConflict("issue is already returned").
				WithDetail("issue_id", issueID.String())
		}
		if req.NewDueDate.Before(d.DueDate) {
			return apperror.NewValidation("new due date must not be before current due date")
		}

		oldDue := d.DueDate
		d.DueDate = req.NewDueDate
		d.IsExtended = true
		d.Touch()
		if err := s.repo.Update(ctx, d); err != nil {
			return err
		}

		s.logAction(ctx, d.ID, "extend", map[string]any{
			"old_due_date": oldDue,
			"new_due_date": req.NewDueDate,
		})
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID retrieves an issue.
func (s *Service) GetByID(ctx context.Context, issueID id.ID) (*Issue, error) {
	doc, err := s.repo.GetByID(ctx, issueID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("issue", issueID.String())
		}
		return nil, err
	}
	return doc, nil
}

// List retrieves issues with filtering.
func (s *Service) List(ctx context.Context, filter Filter) (domain.ListResult[*Issue], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultFilter().Limit
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) logAction(ctx context.Context, issueID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAction(ctx, "issue", issueID, action, changes); err != nil {
		logger.Warn(ctx, "audit log failed", "issue_id", issueID, "action", action, "error", err)
	}
}
