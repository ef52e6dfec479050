package dto

import "time"

// CreateIssueRequest is the payload for issuing a copy to a reader.
type CreateIssueRequest struct {
	CopyID     string    `json:"copy_id" binding:"required"`
	ReaderID   string    `json:"reader_id" binding:"required"`
	EmployeeID string    `json:"employee_id" binding:"required"`
	DueDate    time.Time `json:"due_date" binding:"required"`
	Notes      *string   `json:"notes"`
}

// ReturnIssueRequest is the payload for returning a copy.
type ReturnIssueRequest struct {
	EmployeeID string     `json:"employee_id" binding:"required"`
	ReturnDate *time.Time `json:"return_date"`
}

// ExtendIssueRequest is the payload for extending a loan.
type ExtendIssueRequest struct {
	NewDueDate time.Time `json:"new_due_date" binding:"required"`
}

// IssueListQuery holds issue list query parameters.
type IssueListQuery struct {
	ReaderID string `form:"readerId"`
	CopyID   string `form:"copyId"`
	Open     bool   `form:"open"`
	Overdue  bool   `form:"overdue"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
