package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "doc_purchase_orders"
	purchaseOrderLinesTable = "doc_purchase_order_lines"

	suppliersTable = "cat_suppliers"
	itemsTable     = "cat_items"
)

// baseDocColumns are the columns shared by every document table.
var baseDocColumns = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"created_by", "updated_by", "number", "date", "remarks",
}

var purchaseOrderColumns = append(baseDocColumns[:len(baseDocColumns):len(baseDocColumns)],
	"supplier_id", "due_date", "status", "approved_by", "total_amount",
)

// PurchaseOrderRepo implements purchase_order.Repository.
// Reads join the supplier catalog to fill SupplierName.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchase_order.PurchaseOrder]
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txManager *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			purchaseOrdersTable,
			purchaseOrderColumns,
			func() *purchase_order.PurchaseOrder { return &purchase_order.PurchaseOrder{} },
		),
	}
}

func (r *PurchaseOrderRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(purchaseOrderColumns)+1)
	for _, c := range purchaseOrderColumns {
		cols = append(cols, "p."+c)
	}
	cols = append(cols, "s.name AS supplier_name")

	return r.Builder().
		Select(cols...).
		From(purchaseOrdersTable + " p").
		LeftJoin(suppliersTable + " s ON s.id = p.supplier_id")
}

// GetByID retrieves a purchase order with its supplier name.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, docID id.ID) (*purchase_order.PurchaseOrder, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.id": docID})

	return r.findOne(ctx, q, docID.String())
}

// GetByNumber retrieves a purchase order by its number.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, number string) (*purchase_order.PurchaseOrder, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"p.number": number})

	return r.findOne(ctx, q, number)
}

func (r *PurchaseOrderRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*purchase_order.PurchaseOrder, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc purchase_order.PurchaseOrder
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(purchaseOrdersTable, key)
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	return &doc, nil
}

// GetLines retrieves lines with item names.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase_order.Line, error) {
	q := r.Builder().
		Select(
			"l.line_id", "l.line_no", "l.item_id",
			"l.quantity", "l.unit_price", "l.total_price",
			"i.name AS item_name", "i.sku AS item_sku",
		).
		From(purchaseOrderLinesTable + " l").
		LeftJoin(itemsTable + " i ON i.id = l.item_id").
		Where(squirrel.Eq{"l.document_id": docID}).
		OrderBy("l.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase_order.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the full line set of a purchase order.
func (r *PurchaseOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase_order.Line) error {
	if err := r.deleteLines(ctx, purchaseOrderLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns("line_id", "document_id", "line_no", "item_id", "quantity", "unit_price", "total_price")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.ItemID, line.Quantity, line.UnitPrice, line.TotalPrice)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves purchase orders with filtering.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter purchase_order.ListFilter) (domain.ListResult[*purchase_order.PurchaseOrder], error) {
	result := domain.ListResult[*purchase_order.PurchaseOrder]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"p.deletion_mark": false})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"p.supplier_id": *filter.SupplierID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"p.status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"p.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"p.date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"p.number": pattern},
			squirrel.ILike{"s.name": pattern},
		})
	}

	countQ := r.Builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("p.date DESC, p.number DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}
