package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/invoice"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const invoicesTable = "doc_invoices"

var invoiceColumns = append(baseDocColumns[:len(baseDocColumns):len(baseDocColumns)],
	"sales_order_id", "due_date", "subtotal", "discount", "tax",
	"total_amount", "payment_status",
)

// InvoiceRepo implements invoice.Repository.
// Reads join the sales order for SONumber and CustomerName.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			invoicesTable,
			invoiceColumns,
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

func (r *InvoiceRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(invoiceColumns)+2)
	for _, c := range invoiceColumns {
		cols = append(cols, "v."+c)
	}
	cols = append(cols, "o.number AS so_number", "o.customer_name AS customer_name")

	return r.Builder().
		Select(cols...).
		From(invoicesTable + " v").
		LeftJoin(salesOrdersTable + " o ON o.id = v.sales_order_id")
}

// GetByID retrieves an invoice with SO number and customer name.
func (r *InvoiceRepo) GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"v.id": docID})

	return r.findOne(ctx, q, docID.String())
}

// GetByNumber retrieves an invoice by its number.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"v.number": number})

	return r.findOne(ctx, q, number)
}

// GetBySalesOrderID retrieves the invoice issued for a sales order.
func (r *InvoiceRepo) GetBySalesOrderID(ctx context.Context, soID id.ID) (*invoice.Invoice, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"v.sales_order_id": soID}).
		Where(squirrel.Eq{"v.deletion_mark": false})

	return r.findOne(ctx, q, soID.String())
}

func (r *InvoiceRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*invoice.Invoice, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc invoice.Invoice
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(invoicesTable, key)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	return &doc, nil
}

// List retrieves invoices with filtering.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"v.deletion_mark": false})
	}
	if !id.IsNil(filter.SalesOrderID) {
		q = q.Where(squirrel.Eq{"v.sales_order_id": filter.SalesOrderID})
	}
	if filter.PaymentStatus != "" {
		q = q.Where(squirrel.Eq{"v.payment_status": filter.PaymentStatus})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"v.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"v.date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"v.number": pattern},
			squirrel.ILike{"o.number": pattern},
			squirrel.ILike{"o.customer_name": pattern},
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

	q = q.OrderBy("v.date DESC, v.number DESC")

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
