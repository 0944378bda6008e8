package entity

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Item, Category, Supplier.
type Catalog struct {
	BaseCatalog

	// Name is the display name
	Name string `db:"name" json:"name"`

	// Active gates participation in new transactions.
	// Inactive entities remain readable and keep their history.
	Active bool `db:"active" json:"active"`
}

// NewCatalog creates a new active Catalog with generated ID.
func NewCatalog(name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Name:        name,
		Active:      true,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
