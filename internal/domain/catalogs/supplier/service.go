package supplier

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// SetActive toggles the active flag.
// Inactive suppliers keep their document history but cannot take new orders.
func (s *Service) SetActive(ctx context.Context, sup *Supplier, active bool) error {
	sup.Active = active
	return s.Update(ctx, sup)
}
