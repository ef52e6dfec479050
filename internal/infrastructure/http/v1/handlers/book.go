package handlers

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/core/entity"
	"librarium/internal/domain/catalogs/book"
	"librarium/internal/infrastructure/http/v1/dto"
)

// BookHandler serves book and copy endpoints.
type BookHandler struct {
	*BaseHandler
	service *book.Service
}

// NewBookHandler creates a book handler.
func NewBookHandler(base *BaseHandler, service *book.Service) *BookHandler {
	return &BookHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches book routes to the group.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/availability", h.Availability)
	rg.GET("/:id/copies", h.ListCopies)
	rg.POST("/:id/copies", h.AddCopy)
}

// RegisterCopyRoutes attaches standalone copy routes to the group.
func (h *BookHandler) RegisterCopyRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetCopy)
	rg.PUT("/:id/status", h.SetCopyStatus)
	rg.DELETE("/:id", h.DeleteCopy)
}

// Create handles POST /books. Creates the book and its initial copies
// in one transaction.
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	catalogID, err := dto.ParseID(req.CatalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b := &book.Book{
		BaseEntity:  entity.NewBaseEntity(),
		Title:       req.Title,
		Author:      req.Author,
		Year:        req.Year,
		ISBN:        req.ISBN,
		Description: req.Description,
		CatalogID:   catalogID,
	}

	if err := h.service.CreateWithCopies(c.Request.Context(), b, req.CopiesCount()); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, b.ID.String())
}

// GetByID handles GET /books/:id. Returns the book with copy counts.
func (h *BookHandler) GetByID(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.GetWithCounts(c.Request.Context(), bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Update handles PUT /books/:id.
func (h *BookHandler) Update(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateBookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	catalogID, err := dto.ParseID(req.CatalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	b.Title = req.Title
	b.Author = req.Author
	b.Year = req.Year
	b.ISBN = req.ISBN
	b.Description = req.Description
	b.CatalogID = catalogID
	b.SetVersion(req.Version)
	b.Touch()

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// Delete handles DELETE /books/:id.
func (h *BookHandler) Delete(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), bookID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /books. Accepts catalogId to narrow to one catalog.
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter := q.ToFilter()

	if raw := c.Query("catalogId"); raw != "" {
		catalogID, err := dto.ParseID(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		result, err := h.service.ListByCatalog(c.Request.Context(), catalogID, filter)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, result)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Availability handles GET /books/:id/availability.
func (h *BookHandler) Availability(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	available, err := h.service.AvailableCount(c.Request.Context(), bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AvailabilityResponse{BookID: bookID.String(), Available: available})
}

// ListCopies handles GET /books/:id/copies.
func (h *BookHandler) ListCopies(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	copies, err := h.service.ListCopies(c.Request.Context(), bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, copies)
}

// AddCopy handles POST /books/:id/copies.
func (h *BookHandler) AddCopy(c *gin.Context) {
	bookID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	copy, err := h.service.AddCopy(c.Request.Context(), bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, copy.ID.String())
}

// GetCopy handles GET /book-copies/:id.
func (h *BookHandler) GetCopy(c *gin.Context) {
	copyID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	copy, err := h.service.GetCopy(c.Request.Context(), copyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, copy)
}

// SetCopyStatus handles PUT /book-copies/:id/status.
func (h *BookHandler) SetCopyStatus(c *gin.Context) {
	copyID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.SetCopyStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	copy, err := h.service.SetCopyStatus(c.Request.Context(), copyID, book.CopyStatus(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, copy)
}

// DeleteCopy handles DELETE /book-copies/:id.
func (h *BookHandler) DeleteCopy(c *gin.Context) {
	copyID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.DeleteCopy(c.Request.Context(), copyID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
