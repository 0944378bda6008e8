package goods_issue_note

import (
	"context"
	"fmt"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/sales_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

// Service provides business operations for goods issue notes.
type Service struct {
	repo      Repository
	orders    sales_order.Repository
	items     item.Repository
	stock     *stock.Service
	numerator *numerator.Service
	txManager tx.Manager
	auditor   domain.Auditor
}

// NewService creates a new goods issue note service.
func NewService(
	repo Repository,
	orders sales_order.Repository,
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

func (s *Service) audit(ctx context.Context, docID id.ID, action string, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, "goods_issue_note", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}

// applyLines validates each line's item and decrements stock.
// Must run inside an open transaction.
func (s *Service) applyLines(ctx context.Context, lines []Line) error {
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

		if err := s.stock.Decrease(ctx, line.ItemID, it.Name, line.QuantityIssued); err != nil {
			return err
		}
	}
	return nil
}

// reverseLines returns each line's issued quantity back into stock.
// Must run inside an open transaction.
func (s *Service) reverseLines(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		if err := s.stock.Increase(ctx, line.ItemID, line.QuantityIssued); err != nil {
			return err
		}
	}
	return nil
}

// Create issues goods against a non-draft sales order.
// Every stock decrement and the GIN insert commit in one transaction;
// any failed line rolls everything back.
func (s *Service) Create(ctx context.Context, doc *GoodsIssueNote) error {
	// Every note is born DRAFT; confirmation goes through UpdateStatus.
	doc.Status = StatusDraft

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	so, err := s.orders.GetByID(ctx, doc.SalesOrderID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("sales order", doc.SalesOrderID.String())
		}
		return err
	}
	// The guard only excludes DRAFT; any other state is issuable.
	if so.Status == sales_order.StatusDraft {
		return apperror.NewPreconditionFailed("goods cannot be issued against a draft sales order").
			WithDetail("soNumber", so.Number).
			WithDetail("status", string(so.Status))
	}

	if doc.Number == "" {
		number, err := s.numerator.Next(ctx, numerator.DefaultConfig("GIN"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.applyLines(ctx, doc.Lines); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "issue", map[string]any{"number": doc.Number, "soNumber": so.Number})
	logger.Info(ctx, "goods issued", "id", doc.ID, "number", doc.Number, "so", so.Number)
	return nil
}

// GetByID retrieves a goods issue note with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*GoodsIssueNote, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("goods issue note", docID.String())
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

// Update replaces a draft note's line set.
//
// The edit is two-phase inside one transaction: every previously issued
// quantity is first returned to stock, then the new line set is validated
// and applied exactly as in creation. Going through zero this way avoids
// double-counting when quantities change between the old and new lines.
func (s *Service) Update(ctx context.Context, doc *GoodsIssueNote) error {
	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("goods issue note", doc.ID.String())
			}
			return err
		}
		if err := current.CanEdit(); err != nil {
			return err
		}

		oldLines, err := s.repo.GetLines(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		// Phase 1: reverse the existing decrements.
		if err := s.reverseLines(ctx, oldLines); err != nil {
			return err
		}

		// Phase 2: re-validate and re-apply the new line set.
		if err := s.applyLines(ctx, doc.Lines); err != nil {
			return err
		}

		doc.Status = current.Status
		doc.Number = current.Number
		doc.SalesOrderID = current.SalesOrderID

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, doc.ID, "update", map[string]any{"number": doc.Number})
	logger.Info(ctx, "goods issue note updated", "id", doc.ID, "number", doc.Number)
	return nil
}

// UpdateStatus sets the note status from a raw string.
// The string must parse against the enum; any parseable target is accepted
// regardless of the current status.
func (s *Service) UpdateStatus(ctx context.Context, docID id.ID, raw string) (*GoodsIssueNote, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	var doc *GoodsIssueNote
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("goods issue note", docID.String())
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
	return doc, nil
}

// List retrieves goods issue notes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsIssueNote], error) {
	return s.repo.List(ctx, filter)
}
