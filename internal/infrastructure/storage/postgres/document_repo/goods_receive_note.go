package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_receive_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const (
	goodsReceiveNotesTable     = "doc_goods_receive_notes"
	goodsReceiveNoteLinesTable = "doc_goods_receive_note_lines"
)

var goodsReceiveNoteColumns = append(baseDocColumns[:len(baseDocColumns):len(baseDocColumns)],
	"purchase_order_id", "received_by",
)

// GoodsReceiveNoteRepo implements goods_receive_note.Repository.
// Reads join the purchase order and supplier for PONumber and SupplierName.
type GoodsReceiveNoteRepo struct {
	*BaseDocumentRepo[*goods_receive_note.GoodsReceiveNote]
}

// NewGoodsReceiveNoteRepo creates a new goods receive note repository.
func NewGoodsReceiveNoteRepo(txManager *postgres.TxManager) *GoodsReceiveNoteRepo {
	return &GoodsReceiveNoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			goodsReceiveNotesTable,
			goodsReceiveNoteColumns,
			func() *goods_receive_note.GoodsReceiveNote { return &goods_receive_note.GoodsReceiveNote{} },
		),
	}
}

func (r *GoodsReceiveNoteRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(goodsReceiveNoteColumns)+2)
	for _, c := range goodsReceiveNoteColumns {
		cols = append(cols, "g."+c)
	}
	cols = append(cols, "p.number AS po_number", "s.name AS supplier_name")

	return r.Builder().
		Select(cols...).
		From(goodsReceiveNotesTable + " g").
		LeftJoin(purchaseOrdersTable + " p ON p.id = g.purchase_order_id").
		LeftJoin(suppliersTable + " s ON s.id = p.supplier_id")
}

// GetByID retrieves a goods receive note with PO and supplier names.
func (r *GoodsReceiveNoteRepo) GetByID(ctx context.Context, docID id.ID) (*goods_receive_note.GoodsReceiveNote, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"g.id": docID})

	return r.findOne(ctx, q, docID.String())
}

// GetByNumber retrieves a goods receive note by its number.
func (r *GoodsReceiveNoteRepo) GetByNumber(ctx context.Context, number string) (*goods_receive_note.GoodsReceiveNote, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"g.number": number})

	return r.findOne(ctx, q, number)
}

func (r *GoodsReceiveNoteRepo) findOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*goods_receive_note.GoodsReceiveNote, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc goods_receive_note.GoodsReceiveNote
	if err := pgxscan.Get(ctx, r.querier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(goodsReceiveNotesTable, key)
		}
		return nil, fmt.Errorf("get goods receive note: %w", err)
	}

	return &doc, nil
}

// GetLines retrieves lines with item names.
func (r *GoodsReceiveNoteRepo) GetLines(ctx context.Context, docID id.ID) ([]goods_receive_note.Line, error) {
	q := r.Builder().
		Select(
			"l.line_id", "l.line_no", "l.item_id",
			"l.quantity_ordered", "l.quantity_received",
			"i.name AS item_name", "i.sku AS item_sku",
		).
		From(goodsReceiveNoteLinesTable + " l").
		LeftJoin(itemsTable + " i ON i.id = l.item_id").
		Where(squirrel.Eq{"l.document_id": docID}).
		OrderBy("l.line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []goods_receive_note.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines inserts the line set of a goods receive note.
func (r *GoodsReceiveNoteRepo) SaveLines(ctx context.Context, docID id.ID, lines []goods_receive_note.Line) error {
	if err := r.deleteLines(ctx, goodsReceiveNoteLinesTable, docID); err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(goodsReceiveNoteLinesTable).
		Columns("line_id", "document_id", "line_no", "item_id", "quantity_ordered", "quantity_received")

	for _, line := range lines {
		q = q.Values(line.LineID, docID, line.LineNo, line.ItemID, line.QuantityOrdered, line.QuantityReceived)
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

// List retrieves goods receive notes with filtering.
func (r *GoodsReceiveNoteRepo) List(ctx context.Context, filter goods_receive_note.ListFilter) (domain.ListResult[*goods_receive_note.GoodsReceiveNote], error) {
	result := domain.ListResult[*goods_receive_note.GoodsReceiveNote]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect()

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"g.deletion_mark": false})
	}
	if filter.PurchaseOrderID != nil {
		q = q.Where(squirrel.Eq{"g.purchase_order_id": *filter.PurchaseOrderID})
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
			squirrel.ILike{"p.number": pattern},
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
