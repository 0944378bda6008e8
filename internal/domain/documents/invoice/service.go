package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/tx"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/sales_order"
	"github.com/Lahiru-2000/inventory-management-system/pkg/logger"
	"github.com/Lahiru-2000/inventory-management-system/pkg/numerator"
)

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	orders    sales_order.Repository
	numerator *numerator.Service
	txManager tx.Manager
	auditor   domain.Auditor
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	orders sales_order.Repository,
	num *numerator.Service,
	txManager tx.Manager,
	auditor domain.Auditor,
) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		numerator: num,
		txManager: txManager,
		auditor:   auditor,
	}
}

func (s *Service) audit(ctx context.Context, docID id.ID, action string, changes map[string]any) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, "invoice", docID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "error", err)
	}
}

// CreateRequest carries the caller-supplied fields for invoicing an order.
type CreateRequest struct {
	SalesOrderID id.ID
	Date         time.Time
	DueDate      *time.Time
	Remarks      string
}

// CreateFromSalesOrder invoices a sales order.
//
// The invoice snapshots the order figures as they stand: total, discount
// and tax are copied, and the subtotal is recovered from them. The order
// itself transitions to INVOICED in the same transaction. A second
// invoice attempt for the same order is rejected.
func (s *Service) CreateFromSalesOrder(ctx context.Context, req CreateRequest) (*Invoice, error) {
	if id.IsNil(req.SalesOrderID) {
		return nil, apperror.NewValidation("sales order is required")
	}

	var doc *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetBySalesOrderID(ctx, req.SalesOrderID)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		if existing != nil {
			return apperror.NewConflict(
				fmt.Sprintf("sales order already invoiced as %s", existing.Number)).
				WithDetail("invoiceNumber", existing.Number)
		}

		so, err := s.orders.GetForUpdate(ctx, req.SalesOrderID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("sales order", req.SalesOrderID.String())
			}
			return err
		}

		doc = &Invoice{
			SalesOrderID:  so.ID,
			DueDate:       req.DueDate,
			Subtotal:      so.Subtotal(),
			Discount:      so.Discount,
			Tax:           so.Tax,
			TotalAmount:   so.TotalAmount,
			PaymentStatus: PaymentPending,
		}
		doc.Document = entity.NewDocument()
		if !req.Date.IsZero() {
			doc.Date = req.Date
		}
		doc.Remarks = req.Remarks
		doc.SONumber = so.Number
		doc.CustomerName = so.CustomerName

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		number, err := s.numerator.Next(ctx, numerator.DefaultConfig("INV"), nil, doc.Date)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		so.Status = sales_order.StatusInvoiced
		if err := s.orders.Update(ctx, so); err != nil {
			return fmt.Errorf("finalize sales order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, doc.ID, "create", map[string]any{
		"number":   doc.Number,
		"soNumber": doc.SONumber,
		"total":    doc.TotalAmount.String(),
	})
	logger.Info(ctx, "invoice created", "id", doc.ID, "number", doc.Number, "so", doc.SONumber)
	return doc, nil
}

// GetByID retrieves an invoice.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// GetBySalesOrder retrieves the invoice issued for a sales order.
func (s *Service) GetBySalesOrder(ctx context.Context, soID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetBySalesOrderID(ctx, soID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice for sales order", soID.String())
		}
		return nil, err
	}
	return doc, nil
}

// UpdatePaymentStatus sets the payment status from a raw string.
// The string must parse against the enum; any parseable target is accepted
// regardless of the current status.
func (s *Service) UpdatePaymentStatus(ctx context.Context, docID id.ID, raw string) (*Invoice, error) {
	status, err := ParsePaymentStatus(raw)
	if err != nil {
		return nil, err
	}

	var doc *Invoice
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", docID.String())
			}
			return err
		}

		doc.PaymentStatus = status
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, docID, "status_change", map[string]any{"paymentStatus": string(status)})
	return doc, nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}
