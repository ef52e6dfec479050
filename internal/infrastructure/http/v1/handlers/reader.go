package handlers

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/domain/catalogs/reader"
	"librarium/internal/infrastructure/http/v1/dto"
)

// ReaderHandler serves reader endpoints.
type ReaderHandler struct {
	*BaseHandler
	service *reader.Service
}

// NewReaderHandler creates a reader handler.
func NewReaderHandler(base *BaseHandler, service *reader.Service) *ReaderHandler {
	return &ReaderHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches reader routes to the group.
func (h *ReaderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /readers.
func (h *ReaderHandler) Create(c *gin.Context) {
	var req dto.CreateReaderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r := reader.New(req.Name, req.Email)
	r.Phone = req.Phone
	r.Address = req.Address
	r.PassportData = req.PassportData

	if err := h.service.Create(c.Request.Context(), r); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, r.ID.String())
}

// GetByID handles GET /readers/:id.
func (h *ReaderHandler) GetByID(c *gin.Context) {
	readerID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), readerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, r)
}

// Update handles PUT /readers/:id.
func (h *ReaderHandler) Update(c *gin.Context) {
	readerID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateReaderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), readerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	r.Name = req.Name
	r.Email = req.Email
	r.Phone = req.Phone
	r.Address = req.Address
	r.PassportData = req.PassportData
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	r.SetVersion(req.Version)
	r.Touch()

	if err := h.service.Update(c.Request.Context(), r); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, r)
}

// Delete handles DELETE /readers/:id. Readers with loan history cannot
// be removed and produce a conflict.
func (h *ReaderHandler) Delete(c *gin.Context) {
	readerID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), readerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /readers.
func (h *ReaderHandler) List(c *gin.Context) {
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
