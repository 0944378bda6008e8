// Package reports provides report generation services.
package reports

import (
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// --- Sales Report ---

// SalesReportFilter defines the period for a sales report.
type SalesReportFilter struct {
	FromDate time.Time
	ToDate   time.Time
}

// SalesReportItem is one day of sales activity.
type SalesReportItem struct {
	Date     time.Time   `json:"date"`
	Orders   int         `json:"orders"`
	Revenue  types.Money `json:"revenue"`
	Discount types.Money `json:"discount"`
	Tax      types.Money `json:"tax"`
}

// SalesReport aggregates non-cancelled sales orders over a period.
type SalesReport struct {
	FromDate time.Time         `json:"fromDate"`
	ToDate   time.Time         `json:"toDate"`
	Items    []SalesReportItem `json:"items"`

	TotalOrders   int         `json:"totalOrders"`
	TotalRevenue  types.Money `json:"totalRevenue"`
	TotalDiscount types.Money `json:"totalDiscount"`
	TotalTax      types.Money `json:"totalTax"`
}

// --- Purchase Report ---

// PurchaseReportFilter defines the period for a purchase report.
type PurchaseReportFilter struct {
	FromDate time.Time
	ToDate   time.Time
}

// PurchaseReportItem is one supplier's purchasing activity.
type PurchaseReportItem struct {
	SupplierID   id.ID       `json:"supplierId"`
	SupplierName string      `json:"supplierName"`
	Orders       int         `json:"orders"`
	Amount       types.Money `json:"amount"`
}

// PurchaseReport aggregates approved purchase orders over a period.
type PurchaseReport struct {
	FromDate time.Time            `json:"fromDate"`
	ToDate   time.Time            `json:"toDate"`
	Items    []PurchaseReportItem `json:"items"`

	TotalOrders int         `json:"totalOrders"`
	TotalAmount types.Money `json:"totalAmount"`
}

// --- Supplier Purchase History ---

// SupplierPurchaseHistoryEntry is one purchase order placed with a supplier.
type SupplierPurchaseHistoryEntry struct {
	PurchaseOrderID id.ID       `json:"purchaseOrderId"`
	Number          string      `json:"number"`
	Date            time.Time   `json:"date"`
	Status          string      `json:"status"`
	TotalAmount     types.Money `json:"totalAmount"`
}

// SupplierPurchaseHistory lists every purchase order for one supplier,
// newest first, regardless of status.
type SupplierPurchaseHistory struct {
	SupplierID   id.ID                          `json:"supplierId"`
	SupplierName string                         `json:"supplierName"`
	Items        []SupplierPurchaseHistoryEntry `json:"items"`
	TotalOrders  int                            `json:"totalOrders"`
}

// --- Low Stock Report ---

// LowStockItem is an item at or below its reorder level.
type LowStockItem struct {
	ItemID       id.ID  `json:"itemId"`
	ItemName     string `json:"itemName"`
	ItemSKU      string `json:"itemSku"`
	CategoryName string `json:"categoryName,omitempty"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
}

// LowStockReport lists items needing replenishment.
type LowStockReport struct {
	Items      []LowStockItem `json:"items"`
	TotalItems int            `json:"totalItems"`
}

// --- Profit Report ---

// ProfitReport is sales revenue against cost of goods over a period.
// Cost is reported as zero until cost tracking lands, so Profit currently
// equals revenue.
type ProfitReport struct {
	FromDate time.Time   `json:"fromDate"`
	ToDate   time.Time   `json:"toDate"`
	Revenue  types.Money `json:"revenue"`
	Cost     types.Money `json:"cost"`
	Profit   types.Money `json:"profit"`
}

// --- Dashboard ---

// RecentDocument is a recently created document of any type.
type RecentDocument struct {
	DocumentType string      `json:"documentType"`
	ID           id.ID       `json:"id"`
	Number       string      `json:"number"`
	Date         time.Time   `json:"date"`
	Status       string      `json:"status,omitempty"`
	Amount       types.Money `json:"amount"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Dashboard is the landing-page summary.
type Dashboard struct {
	TotalItems      int `json:"totalItems"`
	TotalCategories int `json:"totalCategories"`
	TotalSuppliers  int `json:"totalSuppliers"`

	TotalStockValue types.Money `json:"totalStockValue"`
	LowStockCount   int         `json:"lowStockCount"`

	PurchaseOrders    int `json:"purchaseOrders"`
	GoodsReceiveNotes int `json:"goodsReceiveNotes"`
	SalesOrders       int `json:"salesOrders"`
	GoodsIssueNotes   int `json:"goodsIssueNotes"`
	Invoices          int `json:"invoices"`

	RecentDocuments []RecentDocument `json:"recentDocuments"`
}
