package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/reports"
)

// ReportHandler serves aggregated reporting endpoints.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

// period extracts the required dateFrom/dateTo query pair.
func (h *ReportHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	from := h.ParseTimeQuery(c, "dateFrom")
	to := h.ParseTimeQuery(c, "dateTo")
	if from == nil || to == nil {
		h.Error(c, apperror.NewValidation("dateFrom and dateTo are required"))
		return time.Time{}, time.Time{}, false
	}
	return *from, *to, true
}

// Sales handles GET /reports/sales.
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}

	report, err := h.service.GetSalesReport(c.Request.Context(), reports.SalesReportFilter{
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Purchases handles GET /reports/purchases.
func (h *ReportHandler) Purchases(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}

	report, err := h.service.GetPurchaseReport(c.Request.Context(), reports.PurchaseReportFilter{
		FromDate: from,
		ToDate:   to,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// SupplierHistory handles GET /reports/suppliers/:id/purchase-history.
func (h *ReportHandler) SupplierHistory(c *gin.Context) {
	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	report, err := h.service.GetSupplierPurchaseHistory(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// LowStock handles GET /reports/low-stock.
func (h *ReportHandler) LowStock(c *gin.Context) {
	report, err := h.service.GetLowStockReport(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Profit handles GET /reports/profit.
func (h *ReportHandler) Profit(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}

	report, err := h.service.GetProfitReport(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
