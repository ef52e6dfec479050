package handlers

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/core/id"
	"librarium/internal/domain/catalogs/catalog"
	"librarium/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves catalog tree endpoints.
type CatalogHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(base *BaseHandler, service *catalog.Service) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches catalog routes to the group.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/tree", h.Tree)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/path", h.Path)
	rg.GET("/:id/children", h.Children)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /catalogs.
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateCatalogRequest
	if !h.BindJSON(c, &req) {
		return
	}

	parentID, err := dto.ParseOptionalID(req.ParentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entity := catalog.New(req.Name, parentID)
	entity.Description = req.Description

	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, entity.ID.String())
}

// GetByID handles GET /catalogs/:id.
func (h *CatalogHandler) GetByID(c *gin.Context) {
	catalogID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), catalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entity)
}

// Update handles PUT /catalogs/:id.
func (h *CatalogHandler) Update(c *gin.Context) {
	catalogID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateCatalogRequest
	if !h.BindJSON(c, &req) {
		return
	}

	parentID, err := dto.ParseOptionalID(req.ParentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), catalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	entity.Name = req.Name
	entity.Description = req.Description
	entity.ParentID = parentID
	entity.SetVersion(req.Version)
	entity.Touch()

	if err := h.service.Update(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entity)
}

// Delete handles DELETE /catalogs/:id. Removes the catalog together
// with nested catalogs, books and copies.
func (h *CatalogHandler) Delete(c *gin.Context) {
	catalogID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.CascadeDelete(c.Request.Context(), catalogID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalogs.
func (h *CatalogHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := q.ToFilter()
	if raw := c.Query("parentId"); raw != "" {
		parentID, err := dto.ParseID(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.ParentID = &parentID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Tree handles GET /catalogs/tree.
func (h *CatalogHandler) Tree(c *gin.Context) {
	var rootID *id.ID
	if raw := c.Query("rootId"); raw != "" {
		parsed, err := dto.ParseID(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		rootID = &parsed
	}

	tree, err := h.service.GetTree(c.Request.Context(), rootID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, tree)
}

// Path handles GET /catalogs/:id/path.
func (h *CatalogHandler) Path(c *gin.Context) {
	catalogID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	path, err := h.service.GetPath(c.Request.Context(), catalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, path)
}

// Children handles GET /catalogs/:id/children.
func (h *CatalogHandler) Children(c *gin.Context) {
	catalogID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	children, err := h.service.GetChildren(c.Request.Context(), &catalogID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, children)
}
