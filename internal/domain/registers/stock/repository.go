package stock

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines operations for the stock ledger.
type Repository interface {
	// Init inserts a zero-quantity row for a new item.
	Init(ctx context.Context, itemID id.ID) error

	// Get returns the current stock row for an item.
	Get(ctx context.Context, itemID id.ID) (Stock, error)

	// GetForUpdate returns the stock row with a pessimistic row lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, itemID id.ID) (Stock, error)

	// SetQuantity writes the new quantity for an item.
	SetQuantity(ctx context.Context, itemID id.ID, quantity int) error

	// List returns stock rows with item details joined.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[Stock], error)

	// ListLowStock returns rows where quantity <= the item's reorder level.
	ListLowStock(ctx context.Context) ([]Stock, error)

	// TotalValue returns SUM(quantity * unit price) over all items.
	TotalValue(ctx context.Context) (types.Money, error)

	// CreateAdjustment appends one adjustment log row.
	CreateAdjustment(ctx context.Context, adj *Adjustment) error

	// ListAdjustments returns the adjustment log, newest first.
	ListAdjustments(ctx context.Context, filter AdjustmentFilter) (domain.ListResult[Adjustment], error)
}

// ListFilter for filtering stock rows.
type ListFilter struct {
	domain.ListFilter

	ItemIDs []id.ID
	LowOnly bool
}

// AdjustmentFilter for filtering the adjustment log.
type AdjustmentFilter struct {
	ItemID   *id.ID
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}
