package purchase_order

import (
	"context"
	"fmt"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/supplier"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	suppliers supplier.Repository
	items     item.Repository
	numerator *numerator.Service
	txManager tx.Manager
	auditor   domain.Auditor
}

// NewService creates a new purchase order service.
// Auditor may be nil; lifecycle events are then not recorded.
func NewService(
	repo Repository,
	suppliers supplier.Repository,
	items item.Repository,
	num *numerator.Service,
	txManager tx.Manager,
	auditor domain.Auditor,
) *Service {
	return &Service{
		repo:      repo,
		suppliers: suppliers,
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
	if err := s.auditor.Record(ctx, "purchase_order", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}

// checkSupplier requires an existing, active supplier.
func (s *Service) checkSupplier(ctx context.Context, supplierID id.ID) error {
	sup, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("supplier", supplierID.String())
		}
		return err
	}
	if !sup.Active {
		return apperror.NewInactiveEntity("supplier", sup.Name)
	}
	return nil
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

// Create creates a new purchase order.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
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

	if err := s.checkSupplier(ctx, doc.SupplierID); err != nil {
		return err
	}
	if err := s.checkLineItems(ctx, doc.Lines); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.Next(ctx, numerator.DefaultConfig("PO"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "create", map[string]any{"number": doc.Number})
	logger.Info(ctx, "purchase order created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase order", docID.String())
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

// Update replaces an editable purchase order's header and full line set.
// Permitted only while the order is DRAFT or PENDING_APPROVAL.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("purchase order", doc.ID.String())
		}
		return err
	}
	if err := current.CanEdit(); err != nil {
		return err
	}

	// Status does not change through update.
	doc.Status = current.Status
	doc.Number = current.Number

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.checkSupplier(ctx, doc.SupplierID); err != nil {
		return err
	}
	if err := s.checkLineItems(ctx, doc.Lines); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "update", map[string]any{"number": doc.Number})
	return nil
}

// Submit moves a draft order into the approval queue.
func (s *Service) Submit(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return s.transition(ctx, docID, "", StatusPendingApproval, "submit")
}

// Approve marks the order APPROVED and records the approver.
// Allowed only from DRAFT or PENDING_APPROVAL.
func (s *Service) Approve(ctx context.Context, docID id.ID, approver string) (*PurchaseOrder, error) {
	return s.transition(ctx, docID, approver, StatusApproved, "approve")
}

// Reject marks the order REJECTED. The rejecter is recorded in the
// same approver field.
func (s *Service) Reject(ctx context.Context, docID id.ID, rejecter string) (*PurchaseOrder, error) {
	return s.transition(ctx, docID, rejecter, StatusRejected, "reject")
}

func (s *Service) transition(ctx context.Context, docID id.ID, decidedBy string, target Status, action string) (*PurchaseOrder, error) {
	var doc *PurchaseOrder

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase order", docID.String())
			}
			return err
		}

		if err := doc.CanDecide(); err != nil {
			return err
		}

		doc.Status = target
		if decidedBy != "" {
			doc.ApprovedBy = &decidedBy
		}

		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, docID, action, map[string]any{"status": string(target), "by": decidedBy})
	logger.Info(ctx, "purchase order transition", "action", action, "id", docID, "status", target)
	return doc, nil
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}
