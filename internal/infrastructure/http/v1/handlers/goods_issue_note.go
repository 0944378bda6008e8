package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_issue_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/dto"
)

// GoodsIssueNoteHandler serves the goods issue note endpoints.
type GoodsIssueNoteHandler struct {
	*BaseHandler
	service *goods_issue_note.Service
}

// NewGoodsIssueNoteHandler creates a new goods issue note handler.
func NewGoodsIssueNoteHandler(base *BaseHandler, service *goods_issue_note.Service) *GoodsIssueNoteHandler {
	return &GoodsIssueNoteHandler{BaseHandler: base, service: service}
}

// List handles GET /documents/goods-issue-notes.
func (h *GoodsIssueNoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := goods_issue_note.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
			OrderBy: c.Query("orderBy"),
		},
		DateFrom: h.ParseTimeQuery(c, "dateFrom"),
		DateTo:   h.ParseTimeQuery(c, "dateTo"),
	}

	if raw := c.Query("salesOrderId"); raw != "" {
		soID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid salesOrderId format"))
			return
		}
		f.SalesOrderID = &soID
	}
	if raw := c.Query("status"); raw != "" {
		status, err := goods_issue_note.ParseStatus(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.Status = &status
	}

	result, err := h.service.List(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /documents/goods-issue-notes/:id.
func (h *GoodsIssueNoteHandler) Get(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Create handles POST /documents/goods-issue-notes.
// Issuing goods decreases stock in the same transaction; insufficient
// stock on any line rejects the whole document.
func (h *GoodsIssueNoteHandler) Create(c *gin.Context) {
	var req dto.CreateGoodsIssueNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	doc.CreatedBy = h.Username(c)
	if doc.IssuedBy == "" {
		doc.IssuedBy = h.Username(c)
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Update handles PUT /documents/goods-issue-notes/:id.
func (h *GoodsIssueNoteHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateGoodsIssueNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc = req.ApplyTo(doc)
	doc.UpdatedBy = h.Username(c)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateStatus handles POST /documents/goods-issue-notes/:id/status.
func (h *GoodsIssueNoteHandler) UpdateStatus(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdateStatus(c.Request.Context(), docID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
