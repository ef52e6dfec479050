package handlers

import (
	"github.com/gin-gonic/gin"

	"librarium/internal/domain/documents/issue"
	"librarium/internal/infrastructure/http/v1/dto"
)

// IssueHandler serves loan ledger endpoints.
type IssueHandler struct {
	*BaseHandler
	service *issue.Service
}

// NewIssueHandler creates an issue handler.
func NewIssueHandler(base *BaseHandler, service *issue.Service) *IssueHandler {
	return &IssueHandler{BaseHandler: base, service: service}
}

// RegisterRoutes attaches issue routes to the group.
func (h *IssueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/return", h.Return)
	rg.POST("/:id/extend", h.Extend)
}

// Create handles POST /issues. Issues a copy to a reader.
func (h *IssueHandler) Create(c *gin.Context) {
	var req dto.CreateIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	copyID, err := dto.ParseID(req.CopyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	readerID, err := dto.ParseID(req.ReaderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	employeeID, err := dto.ParseID(req.EmployeeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Issue(c.Request.Context(), issue.IssueRequest{
		CopyID:     copyID,
		ReaderID:   readerID,
		EmployeeID: employeeID,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, doc.ID.String())
}

// GetByID handles GET /issues/:id.
func (h *IssueHandler) GetByID(c *gin.Context) {
	issueID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), issueID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Return handles POST /issues/:id/return.
func (h *IssueHandler) Return(c *gin.Context) {
	issueID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ReturnIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	employeeID, err := dto.ParseID(req.EmployeeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Return(c.Request.Context(), issueID, issue.ReturnRequest{
		EmployeeID: employeeID,
		ReturnDate: req.ReturnDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Extend handles POST /issues/:id/extend.
func (h *IssueHandler) Extend(c *gin.Context) {
	issueID, err := dto.ParseID(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ExtendIssueRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Extend(c.Request.Context(), issueID, issue.ExtendRequest{
		NewDueDate: req.NewDueDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// List handles GET /issues.
func (h *IssueHandler) List(c *gin.Context) {
	var q dto.IssueListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := issue.DefaultFilter()
	filter.OnlyOpen = q.Open
	filter.OnlyOverdue = q.Overdue
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	if q.Offset > 0 {
		filter.Offset = q.Offset
	}

	if q.ReaderID != "" {
		readerID, err := dto.ParseID(q.ReaderID)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.ReaderID = &readerID
	}
	if q.CopyID != "" {
		copyID, err := dto.ParseID(q.CopyID)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.CopyID = &copyID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
