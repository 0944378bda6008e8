// Package item provides the Item catalog.
// Items are the stock-keeping units that all transactions reference.
package item

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// Item represents a stock-keeping unit.
type Item struct {
	entity.Catalog

	// SKU is the unique stock-keeping code
	SKU string `db:"sku" json:"sku"`

	// Description is an optional free-form description
	Description *string `db:"description" json:"description,omitempty"`

	// CategoryID is the owning category
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	// UnitPrice is the default selling price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// ReorderLevel is the low-stock threshold.
	// An item is low on stock when quantity on hand <= reorder level.
	ReorderLevel int `db:"reorder_level" json:"reorderLevel"`

	// CategoryName is denormalized for reads (join, never stored)
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`
}

// New creates a new active Item.
func New(name, sku string, categoryID id.ID) *Item {
	return &Item{
		Catalog:    entity.NewCatalog(name),
		SKU:        sku,
		CategoryID: categoryID,
		UnitPrice:  types.ZeroMoney(),
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.SKU == "" {
		return apperror.NewValidation("sku is required").
			WithDetail("field", "sku")
	}

	if id.IsNil(i.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if i.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}

	if i.ReorderLevel < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	return nil
}
