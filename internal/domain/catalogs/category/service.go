package category

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Service provides business logic for the Category catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Category]
	repo Repository
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkNameUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkNameUnique)

	return svc
}

// checkNameUnique enforces category name uniqueness.
func (s *Service) checkNameUnique(ctx context.Context, cat *Category) error {
	existing, err := s.repo.GetByName(ctx, cat.Name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != cat.ID {
		return apperror.NewDuplicate("category", "name", cat.Name)
	}
	return nil
}

// SetActive toggles the active flag.
// Deactivating a category does not touch its items; they are gated individually.
func (s *Service) SetActive(ctx context.Context, cat *Category, active bool) error {
	cat.Active = active
	return s.Update(ctx, cat)
}
