package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/invoice"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler serves the invoice endpoints.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service}
}

// List handles GET /documents/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := invoice.ListFilter{
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
		f.SalesOrderID = soID
	}
	if raw := c.Query("paymentStatus"); raw != "" {
		status, err := invoice.ParsePaymentStatus(raw)
		if err != nil {
			h.Error(c, err)
			return
		}
		f.PaymentStatus = status
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

// Get handles GET /documents/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
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

// Create handles POST /documents/invoices.
// The invoice snapshots the order totals and moves the order to INVOICED.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.CreateFromSalesOrder(c.Request.Context(), req.ToServiceRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// GetBySalesOrder handles GET /documents/sales-orders/:id/invoice.
func (h *InvoiceHandler) GetBySalesOrder(c *gin.Context) {
	soID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	doc, err := h.service.GetBySalesOrder(c.Request.Context(), soID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdatePaymentStatus handles POST /documents/invoices/:id/payment-status.
func (h *InvoiceHandler) UpdatePaymentStatus(c *gin.Context) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.UpdatePaymentStatus(c.Request.Context(), docID, req.PaymentStatus)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
