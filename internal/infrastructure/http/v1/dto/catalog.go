package dto

// CreateCatalogRequest is the payload for creating a catalog.
type CreateCatalogRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// UpdateCatalogRequest is the payload for updating a catalog.
// Version enables optimistic locking.
type UpdateCatalogRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
	Version     int     `json:"version" binding:"required"`
}
