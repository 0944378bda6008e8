package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// itemColumns are the physical columns; category_name is join-only.
var itemColumns = []string{
	"id", "deletion_mark", "version", "created_at", "updated_at",
	"name", "active", "sku", "description", "category_id",
	"unit_price", "reorder_level",
}

// ItemRepo implements item.Repository.
// Reads join the category table to fill CategoryName.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			itemTable,
			itemColumns,
			func() *item.Item { return &item.Item{} },
		),
	}
}

func (r *ItemRepo) joinedSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(itemColumns)+1)
	for _, c := range itemColumns {
		cols = append(cols, "i."+c)
	}
	cols = append(cols, "c.name AS category_name")

	return r.Builder().
		Select(cols...).
		From(itemTable + " i").
		LeftJoin(categoryTable + " c ON c.id = i.category_id")
}

// GetByID retrieves an item with its category name.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"i.id": itemID}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// GetByName retrieves an item by exact name.
func (r *ItemRepo) GetByName(ctx context.Context, name string) (*item.Item, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"i.name": name}).
		Where(squirrel.Eq{"i.deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// FindBySKU retrieves an item by SKU.
func (r *ItemRepo) FindBySKU(ctx context.Context, sku string) (*item.Item, error) {
	q := r.joinedSelect().
		Where(squirrel.Eq{"i.sku": sku}).
		Where(squirrel.Eq{"i.deletion_mark": false}).
		Limit(1)

	it, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", sku)
		}
		return nil, err
	}
	return it, nil
}

// List retrieves items with category names. Search matches name or SKU.
func (r *ItemRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.joinedSelect()

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"i.deletion_mark": false})
	}
	if f.ActiveOnly {
		q = q.Where(squirrel.Eq{"i.active": true})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.sku": pattern},
		})
	}
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"i.id": f.IDs})
	}

	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "i.name ASC"
	switch f.OrderBy {
	case "", "name":
	case "-name":
		orderBy = "i.name DESC"
	case "sku":
		orderBy = "i.sku ASC"
	case "-sku":
		orderBy = "i.sku DESC"
	case "created_at":
		orderBy = "i.created_at ASC"
	case "-created_at":
		orderBy = "i.created_at DESC"
	default:
		return result, apperror.NewValidation("invalid orderBy").WithDetail("orderBy", f.OrderBy)
	}
	q = q.OrderBy(orderBy)

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list items: %w", err)
	}

	return result, nil
}
