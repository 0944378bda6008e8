// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const (
	stockTable       = "reg_stock"
	adjustmentsTable = "reg_stock_adjustments"
	itemsTable       = "cat_items"
)

// StockRepo implements stock.Repository.
// Reads join the item catalog for name, SKU, reorder level and unit price.
type StockRepo struct {
	txManager *postgres.TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) joinedSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(
			"s.item_id", "s.quantity", "s.updated_at",
			"i.name AS item_name", "i.sku AS item_sku",
			"i.reorder_level", "i.unit_price",
		).
		From(stockTable + " s").
		Join(itemsTable + " i ON i.id = s.item_id")
}

// Init inserts a zero-quantity row for a new item.
func (r *StockRepo) Init(ctx context.Context, itemID id.ID) error {
	q := r.builder().
		Insert(stockTable).
		Columns("item_id", "quantity", "updated_at").
		Values(itemID, 0, squirrel.Expr("NOW()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("init stock row: %w", err)
	}

	return nil
}

// Get returns the current stock row for an item.
func (r *StockRepo) Get(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"s.item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return stock.Stock{}, fmt.Errorf("build query: %w", err)
	}

	var row stock.Stock
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Stock{}, apperror.NewNotFound("stock", itemID.String())
		}
		return stock.Stock{}, fmt.Errorf("get stock: %w", err)
	}

	return row, nil
}

// GetForUpdate returns the stock row with a pessimistic row lock.
// Only the stock table is locked; item details stay empty here.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID id.ID) (stock.Stock, error) {
	q := r.builder().
		Select("item_id", "quantity", "updated_at").
		From(stockTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return stock.Stock{}, fmt.Errorf("build query: %w", err)
	}

	var row stock.Stock
	if err := pgxscan.Get(ctx, r.querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stock.Stock{}, apperror.NewNotFound("stock", itemID.String())
		}
		return stock.Stock{}, fmt.Errorf("get stock for update: %w", err)
	}

	return row, nil
}

// SetQuantity writes the new quantity for an item.
func (r *StockRepo) SetQuantity(ctx context.Context, itemID id.ID, quantity int) error {
	q := r.builder().
		Update(stockTable).
		Set("quantity", quantity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock", itemID.String())
	}

	return nil
}

// List returns stock rows with item details joined.
func (r *StockRepo) List(ctx context.Context, filter stock.ListFilter) (domain.ListResult[stock.Stock], error) {
	result := domain.ListResult[stock.Stock]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.joinedSelect().
		Where(squirrel.Eq{"i.deletion_mark": false})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.sku": pattern},
		})
	}
	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.item_id": filter.ItemIDs})
	}
	if filter.LowOnly {
		q = q.Where(squirrel.Expr("s.quantity <= i.reorder_level"))
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("i.name ASC")

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
		return result, fmt.Errorf("list stock: %w", err)
	}

	return result, nil
}

// ListLowStock returns rows where quantity is at or below the reorder level.
func (r *StockRepo) ListLowStock(ctx context.Context) ([]stock.Stock, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"i.deletion_mark": false}).
		Where(squirrel.Expr("s.quantity <= i.reorder_level")).
		OrderBy("i.name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.Stock
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	return rows, nil
}

// TotalValue returns SUM(quantity * unit price) over all non-deleted items.
func (r *StockRepo) TotalValue(ctx context.Context) (types.Money, error) {
	sql := fmt.Sprintf(
		"SELECT COALESCE(SUM(s.quantity * i.unit_price), 0) FROM %s s JOIN %s i ON i.id = s.item_id WHERE i.deletion_mark = false",
		stockTable, itemsTable,
	)

	var total decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql).Scan(&total); err != nil {
		return types.ZeroMoney(), fmt.Errorf("total stock value: %w", err)
	}

	return total, nil
}

// CreateAdjustment appends one adjustment log row.
func (r *StockRepo) CreateAdjustment(ctx context.Context, adj *stock.Adjustment) error {
	q := r.builder().
		Insert(adjustmentsTable).
		Columns("id", "item_id", "previous_quantity", "new_quantity", "reason", "adjusted_by", "created_at").
		Values(adj.ID, adj.ItemID, adj.PreviousQuantity, adj.NewQuantity, adj.Reason, adj.AdjustedBy, adj.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("create adjustment: %w", err)
	}

	return nil
}

// ListAdjustments returns the adjustment log, newest first.
func (r *StockRepo) ListAdjustments(ctx context.Context, filter stock.AdjustmentFilter) (domain.ListResult[stock.Adjustment], error) {
	result := domain.ListResult[stock.Adjustment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(
			"a.id", "a.item_id", "a.previous_quantity", "a.new_quantity",
			"a.reason", "a.adjusted_by", "a.created_at",
			"i.name AS item_name",
		).
		From(adjustmentsTable + " a").
		LeftJoin(itemsTable + " i ON i.id = a.item_id")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"a.item_id": *filter.ItemID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"a.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"a.created_at": *filter.DateTo})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("a.created_at DESC")

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
		return result, fmt.Errorf("list adjustments: %w", err)
	}

	return result, nil
}
