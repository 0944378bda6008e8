package sales_order

import (
	"context"
	"fmt"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

// Service provides business operations for sales orders.
type Service struct {
	repo      Repository
	items     item.Repository
	numerator *numerator.Service
	txManager tx.Manager
	auditor   domain.Auditor
}

// NewService creates a new sales order service.
func NewService(
	repo Repository,
	items item.Repository,
	num *numerator.Service,
	txManager tx.Manager,
	auditor domain.Auditor,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

func (s *Service) audit(ctx context.Context, docID id.ID, action string, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, "sales_order", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}

// checkLineItems requires every referenced item to exist and be active.
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

// Create creates a new sales order.
func (s *Service) Create(ctx context.Context, doc *SalesOrder) error {
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if _, err := ParseStatus(string(doc.Status)); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkLineItems(ctx, doc.Lines); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.Next(ctx, numerator.DefaultConfig("SO"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "create", map[string]any{"number": doc.Number})
	logger.Info(ctx, "sales order created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a sales order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("sales order", docID.String())
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

// Update replaces a draft sales order's header and full line set.
func (s *Service) Update(ctx context.Context, doc *SalesOrder) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("sales order", doc.ID.String())
		}
		return err
	}
	if err := current.CanEdit(); err != nil {
		return err
	}

	// Status changes only through UpdateStatus.
	doc.Status = current.Status
	doc.Number = current.Number

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkLineItems(ctx, doc.Lines); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "update", map[string]any{"number": doc.Number})
	return nil
}

// UpdateStatus sets the order status from a raw string.
// The string must parse against the enum; beyond that, any target is
// accepted regardless of the current status. Callers wanting workflow
// guarantees should rely on document-creation gating instead.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, raw string) (*SalesOrder, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	var doc *SalesOrder
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("sales order", docID.String())
			}
			return err
		}

		doc.Status = status
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, docID, "status_change", map[string]any{"status": string(status)})
	logger.Info(ctx, "sales order status changed", "id", docID, "status", status)
	return doc, nil
}

// List retrieves sales orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error) {
	return s.repo.List(ctx, filter)
}
