package dto

// CreateEmployeeRequest is the payload for registering an employee.
type CreateEmployeeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Position *string `json:"position"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"required"`
}

// UpdateEmployeeRequest is the payload for updating an employee.
// Password, when present, replaces the current one.
type UpdateEmployeeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password *string `json:"password"`
	Position *string `json:"position"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"required"`
	IsActive *bool   `json:"is_active"`
	Version  int     `json:"version" binding:"required"`
}
