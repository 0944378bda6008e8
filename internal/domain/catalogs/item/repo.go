package item

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindBySKU retrieves an item by its SKU.
	FindBySKU(ctx context.Context, sku string) (*Item, error)
}
