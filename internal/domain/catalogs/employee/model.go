// Package employee implements library staff records.
package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
)

// Role defines what an employee may do.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// Employee is a staff member who issues and receives books.
type Employee struct {
	entity.BaseEntity
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Position     *string   `db:"position" json:"position,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	HireDate     time.Time `db:"hire_date" json:"hire_date"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}

// New creates an active employee with initialized base fields.
func New(name, username, email string, role Role) *Employee {
	return &Employee{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Username:   username,
		Email:      email,
		HireDate:   time.Now().UTC(),
		Role:       role,
		IsActive:   true,
	}
}

// Validate checks employee invariants.
func (e *Employee) Validate(_ context.Context) error {
	if strings.TrimSpace(e.Name) == "" {
		return apperror.NewValidation("employee name is required")
	}
	if strings.TrimSpace(e.Username) == "" {
		return apperror.NewValidation("employee username is required")
	}
	if !strings.Contains(e.Email, "@") {
		return apperror.NewValidation("employee email is invalid")
	}
	if !e.Role.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown employee role %q", e.Role))
	}
	return nil
}
