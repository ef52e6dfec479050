// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"librarium/internal/core/apperror"
	"librarium/internal/core/id"
	"librarium/internal/domain"
)

// IDResponse is returned after successful creation.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic operation acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListQuery holds common list query parameters.
type ListQuery struct {
	Search  string `form:"search"`
	OrderBy string `form:"orderBy"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// ToFilter converts query params into a domain filter.
func (q ListQuery) ToFilter() domain.ListFilter {
	f := domain.DefaultListFilter()
	f.Search = q.Search
	f.OrderBy = q.OrderBy
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	if q.Offset > 0 {
		f.Offset = q.Offset
	}
	return f
}

// ParseID parses a path or body identifier.
func ParseID(raw string) (id.ID, error) {
	parsed, err := id.Parse(raw)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid id").WithDetail("id", raw)
	}
	return parsed, nil
}

// ParseOptionalID parses an optional identifier, nil for empty input.
func ParseOptionalID(raw *string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := ParseID(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
