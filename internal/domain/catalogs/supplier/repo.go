package supplier

import (
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]
}
