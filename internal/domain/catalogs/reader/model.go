// Package reader implements library patron records.
package reader

import (
	"context"
	"strings"
	"time"

	"librarium/internal/core/apperror"
	"librarium/internal/core/entity"
)

// Reader is a library patron.
type Reader struct {
	entity.BaseEntity
	Name             string    `db:"name" json:"name"`
	Email            *string   `db:"email" json:"email,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	PassportData     *string   `db:"passport_data" json:"passport_data,omitempty"`
	RegistrationDate time.Time `db:"registration_date" json:"registration_date"`
	IsActive         bool      `db:"is_active" json:"is_active"`
}

// New creates an active reader with initialized base fields.
// email may be nil, readers without one are fine.
func New(name string, email *string) *Reader {
	return &Reader{
		BaseEntity:       entity.NewBaseEntity(),
		Name:             name,
		Email:            email,
		RegistrationDate: time.Now().UTC(),
		IsActive:         true,
	}
}

// Validate checks reader invariants. Email is optional but must look
// like an address when present.
func (r *Reader) Validate(_ context.Context) error {
	if strings.TrimSpace(r.Name) == "" {
		return apperror.NewValidation("reader name is required")
	}
	if r.Email != nil && !strings.Contains(*r.Email, "@") {
		return apperror.NewValidation("reader email is invalid")
	}
	return nil
}
