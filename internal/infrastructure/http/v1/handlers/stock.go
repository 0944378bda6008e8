package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock register endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// List handles GET /stock.
func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := stock.ListFilter{
		ListFilter: domain.ListFilter{
			Search: c.Query("search"),
			Limit:  h.ParseIntQuery(c, "limit", 50),
			Offset: h.ParseIntQuery(c, "offset", 0),
		},
		LowOnly: c.Query("lowOnly") == "true",
	}

	if raw := c.Query("itemIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			itemID, err := id.Parse(strings.TrimSpace(part))
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid itemIds format"))
				return
			}
			f.ItemIDs = append(f.ItemIDs, itemID)
		}
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

// Get handles GET /stock/:itemId.
func (h *StockHandler) Get(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	row, err := h.service.Get(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// ListLowStock handles GET /stock/low.
func (h *StockHandler) ListLowStock(c *gin.Context) {
	rows, err := h.service.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// TotalValue handles GET /stock/total-value.
func (h *StockHandler) TotalValue(c *gin.Context) {
	total, err := h.service.TotalValue(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TotalValueResponse{TotalValue: total.String()})
}

// Adjust handles POST /stock/adjustments.
// Sets an absolute quantity and appends an adjustment log entry.
func (h *StockHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	adj, err := h.service.Adjust(c.Request.Context(), req.ToServiceRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, adj)
}

// ListAdjustments handles GET /stock/adjustments.
func (h *StockHandler) ListAdjustments(c *gin.Context) {
	ctx := c.Request.Context()

	f := stock.AdjustmentFilter{
		Limit:    h.ParseIntQuery(c, "limit", 50),
		Offset:   h.ParseIntQuery(c, "offset", 0),
		DateFrom: h.ParseTimeQuery(c, "dateFrom"),
		DateTo:   h.ParseTimeQuery(c, "dateTo"),
	}

	if raw := c.Query("itemId"); raw != "" {
		itemID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format"))
			return
		}
		f.ItemID = &itemID
	}

	result, err := h.service.ListAdjustments(ctx, f)
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
