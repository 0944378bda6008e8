package reports

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
)

// Repository defines read-only report queries.
type Repository interface {
	GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error)
	GetPurchaseReport(ctx context.Context, filter PurchaseReportFilter) (*PurchaseReport, error)
	GetSupplierPurchaseHistory(ctx context.Context, supplierID id.ID) (*SupplierPurchaseHistory, error)
	GetLowStockReport(ctx context.Context) (*LowStockReport, error)
	GetDashboard(ctx context.Context, recentLimit int) (*Dashboard, error)
}
