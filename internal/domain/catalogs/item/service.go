package item

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/category"
)

// StockInitializer creates the stock ledger row for a newly created item.
// Implemented by the stock register service; runs inside the item create
// transaction so an item can never exist without its stock row.
type StockInitializer interface {
	InitItem(ctx context.Context, itemID id.ID) error
}

// Service provides business logic for the Item catalog.
type Service struct {
	*domain.CatalogService[*Item]
	repo       Repository
	categories category.Repository
	stock      StockInitializer
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	categories category.Repository,
	stock StockInitializer,
	txManager tx.Manager,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		categories:     categories,
		stock:          stock,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkSKUUnique)
	base.Hooks().On(domain.BeforeCreate, svc.checkCategory)
	base.Hooks().On(domain.BeforeUpdate, svc.checkSKUUnique)
	base.Hooks().On(domain.BeforeUpdate, svc.checkCategory)
	base.Hooks().On(domain.AfterCreate, svc.initStockRow)

	return svc
}

// checkSKUUnique enforces SKU uniqueness across items.
func (s *Service) checkSKUUnique(ctx context.Context, it *Item) error {
	existing, err := s.repo.FindBySKU(ctx, it.SKU)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != it.ID {
		return apperror.NewDuplicate("item", "sku", it.SKU)
	}
	return nil
}

// checkCategory requires an existing, active category.
func (s *Service) checkCategory(ctx context.Context, it *Item) error {
	cat, err := s.categories.GetByID(ctx, it.CategoryID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("category", it.CategoryID.String())
		}
		return err
	}
	if !cat.Active {
		return apperror.NewInactiveEntity("category", cat.Name)
	}
	return nil
}

// initStockRow creates the zero-quantity stock row for a new item.
func (s *Service) initStockRow(ctx context.Context, it *Item) error {
	return s.stock.InitItem(ctx, it.ID)
}

// FindBySKU retrieves an item by SKU.
func (s *Service) FindBySKU(ctx context.Context, sku string) (*Item, error) {
	it, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", sku)
		}
		return nil, err
	}
	return it, nil
}

// SetActive toggles the active flag.
// Deactivation does not touch stock: quantity on hand stays visible and
// existing document lines keep resolving.
func (s *Service) SetActive(ctx context.Context, it *Item, active bool) error {
	it.Active = active
	return s.Update(ctx, it)
}
