package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_issue_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const (
	goodsIssueNotesTable     = "doc_goods_issue_notes"
	goodsIssueNoteLinesTable = "doc_goods_issue_note_lines"
)

var goodsIssueNoteColumns = append(baseDocColumns[:len(baseDocColumns):len(baseDocColumns)],
	"sales_order_id", "issued_by", "status",
)

// GoodsIssueNoteRepo implements goods_issue_note.Repository.
// Reads join the sales order for SONumber and CustomerName.
type GoodsIssueNoteRepo struct {
	*BaseDocumentRepo[*goods_issue_note.GoodsIssueNote]
}

// NewGoodsIssueNoteRepo creates a new goods issue note repository.
func NewGoodsIssueNoteRepo(txManager *postgres.TxManager) *GoodsIssueNoteRepo {
	return &GoodsIssueNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			goodsIssueNotesTable,
			goodsIssueNoteColumns,
			func() *goods_issue_note.GoodsIssueNote { return &goods_issue_note.GoodsIssueNote{} },
		),
	}
}

func (r *GoodsIssueNoteRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(goodsIssueNoteColumns)+2)
	for _, c := range goodsIssueNoteColumns {
		cols = append(cols, "g."+c)
	}
	cols = append(cols, "o.number AS so_number", "o.customer_name AS customer_name")

	return r.Builder().
		Select(cols...).
		From(goodsIssueNotesTable + " g").
		LeftJoin(salesOrdersTable + " o ON o.id = g.sales_order_id")
}

// GetByID retrieves a goods issue note with SO number and customer name.
func (r *GoodsIssueNoteRepo) GetByID(ctx context.Context, docID id.ID) (*goods_issue_note.GoodsIssueNote, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"g.id": docID})

	return r.findOne(ctx, q, docID.String())
}

// GetByNumber retrieves a goods issue note by its number.
func (r *GoodsIssueNoteRepo) GetByNumber(ctx context.Context, number string) (*goods_issue_note.GoodsIssueNote, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"g.number": number})

	return r.findOne(ctx, q, number)
}

func (r *GoodsIssueNoteRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*goods_issue_note.GoodsIssueNote, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc goods_issue_note.GoodsIssueNote
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(goodsIssueNotesTable, key)
		}
		return nil, fmt.Errorf("get goods issue note: %w", err)
	}

	return &doc, nil
}

// GetLines retrieves lines with item names.
func (r *GoodsIssueNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_issue_note.Line, error) {
	q := r.Builder().
		Select(
			"l.line_id", "l.line_no", "l.item_id",
			"l.quantity_ordered", "l.quantity_issued", "l.unit_price", "l.total_price",
			"i.name AS item_name", "i.sku AS item_sku",
		).
		From(goodsIssueNoteLinesTable + " l").
		LeftJoin(itemsTable + " i ON i.id = l.item_id").
		Where(squirrel.Eq{"l.document_id": docID}).
		OrderBy("l.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []goods_issue_note.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines replaces the full line set of a goods issue note.
func (r *GoodsIssueNoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []goods_issue_note.Line) error {
	if err := r.deleteLines(ctx, goodsIssueNoteLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(goodsIssueNoteLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "item_id",
			"quantity_ordered", "quantity_issued", "unit_price", "total_price",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.ItemID,
			line.QuantityOrdered, line.QuantityIssued, line.UnitPrice, line.TotalPrice,
		)
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

// List retrieves goods issue notes with filtering.
func (r *GoodsIssueNoteRepo) List(ctx context.Context, filter goods_issue_note.ListFilter) (domain.ListResult[*goods_issue_note.GoodsIssueNote], error) {
	result := domain.ListResult[*goods_issue_note.GoodsIssueNote]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"g.deletion_mark": false})
	}
	if filter.SalesOrderID != nil {
		q = q.Where(squirrel.Eq{"g.sales_order_id": *filter.SalesOrderID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"g.status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"g.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"g.date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"g.number": pattern},
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

	q = q.OrderBy("g.date DESC, g.number DESC")

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
