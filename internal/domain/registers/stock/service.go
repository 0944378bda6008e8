package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
)

// Service provides business operations for the stock ledger.
//
// Increase and Decrease must run inside the caller's transaction: document
// services lock and mutate stock atomically with their own writes. Adjust
// opens its own transaction.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// InitItem creates the zero-quantity stock row for a new item.
func (s *Service) InitItem(ctx context.Context, itemID id.ID) error {
	return s.repo.Init(ctx, itemID)
}

// Get returns the current stock row for an item.
func (s *Service) Get(ctx context.Context, itemID id.ID) (Stock, error) {
	return s.repo.Get(ctx, itemID)
}

// Increase adds quantity to an item's stock under a row lock.
// Caller must hold an open transaction.
func (s *Service) Increase(ctx context.Context, itemID id.ID, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	row, err := s.repo.GetForUpdate(ctx, itemID)
	if err != nil {
		return fmt.Errorf("lock stock for %s: %w", itemID, err)
	}

	return s.repo.SetQuantity(ctx, itemID, row.Quantity+quantity)
}

// Decrease subtracts quantity from an item's stock under a row lock.
// Fails with an insufficient-stock error if the item does not have
// enough on hand; the row is left untouched in that case.
// Caller must hold an open transaction.
func (s *Service) Decrease(ctx context.Context, itemID id.ID, itemName string, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	row, err := s.repo.GetForUpdate(ctx, itemID)
	if err != nil {
		return fmt.Errorf("lock stock for %s: %w", itemID, err)
	}

	if row.Quantity < quantity {
		return apperror.NewInsufficientStock(itemName, quantity, row.Quantity)
	}

	return s.repo.SetQuantity(ctx, itemID, row.Quantity-quantity)
}

// Adjust sets an item's quantity to an absolute value and appends
// one row to the adjustment log, atomically.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*Adjustment, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	adj := &Adjustment{
		ID:          id.New(),
		ItemID:      req.ItemID,
		NewQuantity: req.NewQuantity,
		Reason:      req.Reason,
		AdjustedBy:  logger.UserFromContext(ctx),
		CreatedAt:   time.Now().UTC(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		row, err := s.repo.GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("lock stock for %s: %w", req.ItemID, err)
		}
		adj.PreviousQuantity = row.Quantity

		if err := s.repo.SetQuantity(ctx, req.ItemID, req.NewQuantity); err != nil {
			return fmt.Errorf("set quantity: %w", err)
		}

		return s.repo.CreateAdjustment(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	adj.fillDelta()

	logger.Info(ctx, "stock adjusted",
		"item_id", req.ItemID,
		"previous", adj.PreviousQuantity,
		"new", adj.NewQuantity,
	)

	return adj, nil
}

// List returns stock rows with item details.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Stock], error) {
	return s.repo.List(ctx, filter)
}

// ListLowStock returns items at or below their reorder level.
func (s *Service) ListLowStock(ctx context.Context) ([]Stock, error) {
	return s.repo.ListLowStock(ctx)
}

// TotalValue returns the total value of stock on hand at current unit prices.
func (s *Service) TotalValue(ctx context.Context) (types.Money, error) {
	return s.repo.TotalValue(ctx)
}

// ListAdjustments returns the adjustment log.
func (s *Service) ListAdjustments(ctx context.Context, filter AdjustmentFilter) (domain.ListResult[Adjustment], error) {
	result, err := s.repo.ListAdjustments(ctx, filter)
	if err != nil {
		return result, err
	}
	for i := range result.Items {
		result.Items[i].fillDelta()
	}
	return result, nil
}
