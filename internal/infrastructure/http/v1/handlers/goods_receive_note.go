package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_receive_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/dto"
)

// GoodsReceiveNoteHandler serves the goods receive note endpoints.
// Notes are immutable once created; there is no update route.
type GoodsReceiveNoteHandler struct {
	*BaseHandler
	service *goods_receive_note.Service
}

// NewGoodsReceiveNoteHandler creates a new goods receive note handler.
func NewGoodsReceiveNoteHandler(base *BaseHandler, service *goods_receive_note.Service) *GoodsReceiveNoteHandler {
	return &GoodsReceiveNoteHandler{BaseHandler: base, service: service}
}

// List handles GET /documents/goods-receive-notes.
func (h *GoodsReceiveNoteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := goods_receive_note.ListFilter{
		ListFilter: domain.ListFilter{
			Search:  c.Query("search"),
			Limit:   h.ParseIntQuery(c, "limit", 50),
			Offset:  h.ParseIntQuery(c, "offset", 0),
			OrderBy: c.Query("orderBy"),
		},
		DateFrom: h.ParseTimeQuery(c, "dateFrom"),
		DateTo:   h.ParseTimeQuery(c, "dateTo"),
	}

	if raw := c.Query("purchaseOrderId"); raw != "" {
		poID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid purchaseOrderId format"))
			return
		}
		f.PurchaseOrderID = &poID
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

// Get handles GET /documents/goods-receive-notes/:id.
func (h *GoodsReceiveNoteHandler) Get(c *gin.Context) {
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

// Create handles POST /documents/goods-receive-notes.
// Receiving goods increases stock in the same transaction.
func (h *GoodsReceiveNoteHandler) Create(c *gin.Context) {
	var req dto.CreateGoodsReceiveNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	doc.CreatedBy = h.Username(c)
	if doc.ReceivedBy == "" {
		doc.ReceivedBy = h.Username(c)
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}
