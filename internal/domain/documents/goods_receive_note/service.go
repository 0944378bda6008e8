package goods_receive_note

import (
	"context"
	"fmt"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

// Service provides business operations for goods receive notes.
type Service struct {
	repo      Repository
	orders    purchase_order.Repository
	items     item.Repository
	stock     *stock.Service
	numerator *numerator.Service
	txManager tx.Manager
	auditor   domain.Auditor
}

// NewService creates a new goods receive note service.
func NewService(
	repo Repository,
	orders purchase_order.Repository,
	items item.Repository,
	stockSvc *stock.Service,
	num *numerator.Service,
	txManager tx.Manager,
	auditor domain.Auditor,
) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		items:     items,
		stock:     stockSvc,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

// checkLineItems requires every received item to exist and be active.
func (s *Service) checkLineItems(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		it, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("item", line.ItemID.String())
			}
			return err
		}
		if !it.Active {
			return apperror.NewInactiveEntity("item", it.Name)
		}
	}
	return nil
}

// Create receives goods against an approved purchase order.
// The GRN insert and every stock increment commit in one transaction.
func (s *Service) Create(ctx context.Context, doc *GoodsReceiveNote) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkLineItems(ctx, doc.Lines); err != nil {
		return err
	}

	po, err := s.orders.GetByID(ctx, doc.PurchaseOrderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("purchase order", doc.PurchaseOrderID.String())
		}
		return err
	}
	if po.Status != purchase_order.StatusApproved {
		return apperror.NewPreconditionFailed("goods can only be received against an approved purchase order").
			WithDetail("poNumber", po.Number).
			WithDetail("status", string(po.Status))
	}

	// Mirror ordered quantities from the PO lines.
	poLines, err := s.orders.GetLines(ctx, po.ID)
	if err != nil {
		return fmt.Errorf("get order lines: %w", err)
	}
	orderedByItem := make(map[id.ID]int, len(poLines))
	for _, l := range poLines {
		orderedByItem[l.ItemID] += l.Quantity
	}
	for i := range doc.Lines {
		if doc.Lines[i].QuantityOrdered == 0 {
			doc.Lines[i].QuantityOrdered = orderedByItem[doc.Lines[i].ItemID]
		}
	}

	if doc.Number == "" {
		number, err := s.numerator.Next(ctx, numerator.DefaultConfig("GRN"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range doc.Lines {
			if err := s.stock.Increase(ctx, line.ItemID, line.QuantityReceived); err != nil {
				if apperror.IsNotFound(err) {
					// Every item gets its stock row at creation; a missing
					// row means the ledger itself is corrupt.
					return apperror.NewInternal(fmt.Errorf("stock row missing for item %s", line.ItemID))
				}
				return err
			}
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return err
	}

	if s.auditor != nil {
		if err := s.auditor.Record(ctx, "goods_receive_note", doc.ID, "receive", map[string]any{
			"number":   doc.Number,
			"poNumber": po.Number,
		}); err != nil {
			logger.Warn(ctx, "audit record failed", "action", "receive", "error", err)
		}
	}

	logger.Info(ctx, "goods received", "id", doc.ID, "number", doc.Number, "po", po.Number)
	return nil
}

// GetByID retrieves a goods receive note with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*GoodsReceiveNote, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("goods receive note", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// List retrieves goods receive notes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsReceiveNote], error) {
	return s.repo.List(ctx, filter)
}
