package dto

// CreateBookRequest is the payload for creating a book together with
// its initial copies.
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Year        int     `json:"year"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	CatalogID   string  `json:"catalog_id" binding:"required"`
	Copies      *int    `json:"copies"`
}

// CopiesCount returns the requested copy count, defaulting to one copy
// when the field is omitted. An explicit zero stays zero.
func (r CreateBookRequest) CopiesCount() int {
	if r.Copies == nil {
		return 1
	}
	return *r.Copies
}

// UpdateBookRequest is the payload for updating a book.
type UpdateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Year        int     `json:"year"`
	ISBN        *string `json:"isbn"`
	Description *string `json:"description"`
	CatalogID   string  `json:"catalog_id" binding:"required"`
	Version     int     `json:"version" binding:"required"`
}

// SetCopyStatusRequest changes a copy state.
type SetCopyStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AvailabilityResponse reports how many copies of a book can be issued.
type AvailabilityResponse struct {
	BookID    string `json:"book_id"`
	Available int64  `json:"available"`
}
