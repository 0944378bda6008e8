// Package stock provides the stock ledger: one quantity-on-hand row per item
// plus an append-only adjustment log for manual corrections.
package stock

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// Stock is the quantity-on-hand row for an item.
// Quantity never goes negative; every mutation happens under a row lock.
type Stock struct {
	ItemID    id.ID     `db:"item_id" json:"itemId"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Denormalized item fields for reads (join, never stored)
	ItemName     string      `db:"item_name" json:"itemName,omitempty"`
	ItemSKU      string      `db:"item_sku" json:"itemSku,omitempty"`
	ReorderLevel int         `db:"reorder_level" json:"reorderLevel,omitempty"`
	UnitPrice    types.Money `db:"unit_price" json:"unitPrice,omitempty"`
}

// IsLow reports whether the item has reached its reorder level.
func (s Stock) IsLow() bool {
	return s.Quantity <= s.ReorderLevel
}

// Adjustment is one manual stock correction.
// Rows are append-only: the log is the audit trail of every absolute set.
type Adjustment struct {
	ID               id.ID     `db:"id" json:"id"`
	ItemID           id.ID     `db:"item_id" json:"itemId"`
	PreviousQuantity int       `db:"previous_quantity" json:"previousQuantity"`
	NewQuantity      int       `db:"new_quantity" json:"newQuantity"`
	Reason           string    `db:"reason" json:"reason,omitempty"`
	AdjustedBy       string    `db:"adjusted_by" json:"adjustedBy,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`

	// Delta is the signed quantity change, derived from the two
	// quantities at read time rather than stored.
	Delta int `db:"-" json:"delta"`

	// Denormalized for reads
	ItemName string `db:"item_name" json:"itemName,omitempty"`
}

func (a *Adjustment) fillDelta() {
	a.Delta = a.NewQuantity - a.PreviousQuantity
}

// AdjustRequest describes a manual stock correction.
// NewQuantity is an absolute value, not a delta.
type AdjustRequest struct {
	ItemID      id.ID
	NewQuantity int
	Reason      string
}

// Validate checks the request invariants.
func (r AdjustRequest) Validate(ctx context.Context) error {
	if id.IsNil(r.ItemID) {
		return apperror.NewValidation("item is required").
			WithDetail("field", "itemId")
	}
	if r.NewQuantity < 0 {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "newQuantity")
	}
	return nil
}
