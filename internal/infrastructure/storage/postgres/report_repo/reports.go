// Package report_repo provides PostgreSQL report queries.
package report_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/reports"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository with SQL aggregates.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetSalesReport aggregates non-cancelled sales orders per day.
func (r *ReportRepo) GetSalesReport(ctx context.Context, filter reports.SalesReportFilter) (*reports.SalesReport, error) {
	const query = `
		SELECT date::date AS day,
		       COUNT(*) AS orders,
		       COALESCE(SUM(total_amount), 0) AS revenue,
		       COALESCE(SUM(discount), 0) AS discount,
		       COALESCE(SUM(tax), 0) AS tax
		FROM doc_sales_orders
		WHERE deletion_mark = false
		  AND status <> 'CANCELLED'
		  AND date >= $1 AND date <= $2
		GROUP BY day
		ORDER BY day`

	rows, err := r.querier(ctx).Query(ctx, query, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}
	defer rows.Close()

	report := &reports.SalesReport{
		FromDate:      filter.FromDate,
		ToDate:        filter.ToDate,
		TotalRevenue:  decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalTax:      decimal.Zero,
	}

	for rows.Next() {
		var item reports.SalesReportItem
		if err := rows.Scan(&item.Date, &item.Orders, &item.Revenue, &item.Discount, &item.Tax); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		report.Items = append(report.Items, item)
		report.TotalOrders += item.Orders
		report.TotalRevenue = report.TotalRevenue.Add(item.Revenue)
		report.TotalDiscount = report.TotalDiscount.Add(item.Discount)
		report.TotalTax = report.TotalTax.Add(item.Tax)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales report rows: %w", err)
	}

	return report, nil
}

// GetPurchaseReport aggregates approved purchase orders per supplier.
func (r *ReportRepo) GetPurchaseReport(ctx context.Context, filter reports.PurchaseReportFilter) (*reports.PurchaseReport, error) {
	const query = `
		SELECT p.supplier_id,
		       COALESCE(s.name, '') AS supplier_name,
		       COUNT(*) AS orders,
		       COALESCE(SUM(p.total_amount), 0) AS amount
		FROM doc_purchase_orders p
		LEFT JOIN cat_suppliers s ON s.id = p.supplier_id
		WHERE p.deletion_mark = false
		  AND p.status = 'APPROVED'
		  AND p.date >= $1 AND p.date <= $2
		GROUP BY p.supplier_id, s.name
		ORDER BY amount DESC`

	rows, err := r.querier(ctx).Query(ctx, query, filter.FromDate, filter.ToDate)
	if err != nil {
		return nil, fmt.Errorf("purchase report: %w", err)
	}
	defer rows.Close()

	report := &reports.PurchaseReport{
		FromDate:    filter.FromDate,
		ToDate:      filter.ToDate,
		TotalAmount: decimal.Zero,
	}

	for rows.Next() {
		var item reports.PurchaseReportItem
		if err := rows.Scan(&item.SupplierID, &item.SupplierName, &item.Orders, &item.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		report.Items = append(report.Items, item)
		report.TotalOrders += item.Orders
		report.TotalAmount = report.TotalAmount.Add(item.Amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("purchase report rows: %w", err)
	}

	return report, nil
}

// GetSupplierPurchaseHistory lists every purchase order for one supplier,
// newest first. Unknown or soft-deleted suppliers yield a not-found error.
func (r *ReportRepo) GetSupplierPurchaseHistory(ctx context.Context, supplierID id.ID) (*reports.SupplierPurchaseHistory, error) {
	const supplierQuery = `
		SELECT name FROM cat_suppliers
		WHERE id = $1 AND deletion_mark = false`

	report := &reports.SupplierPurchaseHistory{SupplierID: supplierID}
	err := r.querier(ctx).QueryRow(ctx, supplierQuery, supplierID).Scan(&report.SupplierName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("supplier lookup: %w", err)
	}

	const historyQuery = `
		SELECT id, number, date, status, total_amount
		FROM doc_purchase_orders
		WHERE supplier_id = $1
		  AND deletion_mark = false
		ORDER BY date DESC, number DESC`

	rows, err := r.querier(ctx).Query(ctx, historyQuery, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier purchase history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry reports.SupplierPurchaseHistoryEntry
		if err := rows.Scan(&entry.PurchaseOrderID, &entry.Number, &entry.Date, &entry.Status, &entry.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		report.Items = append(report.Items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("supplier purchase history rows: %w", err)
	}

	report.TotalOrders = len(report.Items)
	return report, nil
}

// GetLowStockReport lists items at or below their reorder level.
func (r *ReportRepo) GetLowStockReport(ctx context.Context) (*reports.LowStockReport, error) {
	const query = `
		SELECT i.id, i.name, i.sku,
		       COALESCE(c.name, '') AS category_name,
		       s.quantity, i.reorder_level
		FROM reg_stock s
		JOIN cat_items i ON i.id = s.item_id
		LEFT JOIN cat_categories c ON c.id = i.category_id
		WHERE i.deletion_mark = false
		  AND s.quantity <= i.reorder_level
		ORDER BY i.name`

	rows, err := r.querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock report: %w", err)
	}
	defer rows.Close()

	report := &reports.LowStockReport{}
	for rows.Next() {
		var item reports.LowStockItem
		if err := rows.Scan(&item.ItemID, &item.ItemName, &item.ItemSKU, &item.CategoryName, &item.Quantity, &item.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		report.Items = append(report.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("low stock rows: %w", err)
	}

	report.TotalItems = len(report.Items)
	return report, nil
}

// GetDashboard collects the landing-page counters and recent documents.
func (r *ReportRepo) GetDashboard(ctx context.Context, recentLimit int) (*reports.Dashboard, error) {
	const countsQuery = `
		SELECT
		  (SELECT COUNT(*) FROM cat_items WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM cat_categories WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM cat_suppliers WHERE deletion_mark = false),
		  (SELECT COALESCE(SUM(s.quantity * i.unit_price), 0)
		     FROM reg_stock s JOIN cat_items i ON i.id = s.item_id
		     WHERE i.deletion_mark = false),
		  (SELECT COUNT(*)
		     FROM reg_stock s JOIN cat_items i ON i.id = s.item_id
		     WHERE i.deletion_mark = false AND s.quantity <= i.reorder_level),
		  (SELECT COUNT(*) FROM doc_purchase_orders WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM doc_goods_receive_notes WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM doc_sales_orders WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM doc_goods_issue_notes WHERE deletion_mark = false),
		  (SELECT COUNT(*) FROM doc_invoices WHERE deletion_mark = false)`

	querier := r.querier(ctx)

	dash := &reports.Dashboard{}
	var stockValue decimal.Decimal
	err := querier.QueryRow(ctx, countsQuery).Scan(
		&dash.TotalItems, &dash.TotalCategories, &dash.TotalSuppliers,
		&stockValue, &dash.LowStockCount,
		&dash.PurchaseOrders, &dash.GoodsReceiveNotes,
		&dash.SalesOrders, &dash.GoodsIssueNotes, &dash.Invoices,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	dash.TotalStockValue = stockValue

	const recentQuery = `
		SELECT * FROM (
		  SELECT 'PURCHASE_ORDER' AS doc_type, id, number, date, status, total_amount, created_at
		    FROM doc_purchase_orders WHERE deletion_mark = false
		  UNION ALL
		  SELECT 'GOODS_RECEIVE_NOTE', id, number, date, '', 0::numeric, created_at
		    FROM doc_goods_receive_notes WHERE deletion_mark = false
		  UNION ALL
		  SELECT 'SALES_ORDER', id, number, date, status, total_amount, created_at
		    FROM doc_sales_orders WHERE deletion_mark = false
		  UNION ALL
		  SELECT 'GOODS_ISSUE_NOTE', id, number, date, status, 0::numeric, created_at
		    FROM doc_goods_issue_notes WHERE deletion_mark = false
		  UNION ALL
		  SELECT 'INVOICE', id, number, date, payment_status, total_amount, created_at
		    FROM doc_invoices WHERE deletion_mark = false
		) recent
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := querier.Query(ctx, recentQuery, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc reports.RecentDocument
		var createdAt time.Time
		if err := rows.Scan(&doc.DocumentType, &doc.ID, &doc.Number, &doc.Date, &doc.Status, &doc.Amount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan recent document: %w", err)
		}
		doc.CreatedAt = createdAt
		dash.RecentDocuments = append(dash.RecentDocuments, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent document rows: %w", err)
	}

	return dash, nil
}
