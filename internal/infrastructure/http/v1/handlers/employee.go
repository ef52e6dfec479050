package handlers

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/domain/catalogs/employee"
	"librarium/internal/infrastructure/http/v1/dto"
)

// EmployeeHandler serves employee endpoints.
type EmployeeHandler struct {
	*BaseHandler
	service *employee.Service
}

// NewEmployeeHandler creates an employee handler.
func NewEmployeeHandler(base *BaseHandler, service *employee.Service) *EmployeeHandler {
	return &EmployeeHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches employee routes to the group.
func (h *EmployeeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e := employee.New(req.Name, req.Username, req.Email, employee.Role(req.Role))
	e.Position = req.Position
	e.Phone = req.Phone
	if err := employee.SetPassword(e, req.Password); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, e.ID.String())
}

// GetByID handles GET /employees/:id.
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employeeID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), employeeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// Update handles PUT /employees/:id.
func (h *EmployeeHandler) Update(c *gin.Context) {
	employeeID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateEmployeeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), employeeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	e.Name = req.Name
	e.Username = req.Username
	e.Email = req.Email
	e.Position = req.Position
	e.Phone = req.Phone
	e.Role = employee.Role(req.Role)
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := employee.SetPassword(e, *req.Password); err != nil {
			h.Error(c, err)
			return
		}
	}
	e.SetVersion(req.Version)
	e.Touch()

	if err := h.service.Update(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, e)
}

// Delete handles DELETE /employees/:id. Employees referenced by loan
// documents cannot be removed and produce a conflict.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	employeeID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), employeeID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /employees.
func (h *EmployeeHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
