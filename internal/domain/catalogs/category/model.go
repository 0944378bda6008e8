// Package category provides the Category catalog.
// Categories group items for reporting and browsing.
package category

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
)

// Category represents an item grouping.
type Category struct {
	entity.Catalog

	// Description is an optional free-form description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new active Category.
func New(name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
