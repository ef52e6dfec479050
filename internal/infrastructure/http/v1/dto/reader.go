package dto

// CreateReaderRequest is the payload for registering a reader.
// Email is optional.
type CreateReaderRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	PassportData *string `json:"passport_data"`
}

// UpdateReaderRequest is the payload for updating a reader.
type UpdateReaderRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	PassportData *string `json:"passport_data"`
	IsActive     *bool   `json:"is_active"`
	Version      int     `json:"version" binding:"required"`
}
