package category

import (
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]
}
