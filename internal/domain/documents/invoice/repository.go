package invoice

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	domain.ListFilter

	SalesOrderID  id.ID
	PaymentStatus PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Repository defines persistence for invoices.
// Invoices carry no lines of their own; figures are snapshotted totals.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	// GetBySalesOrderID returns the invoice issued for an order, if any.
	// At most one invoice exists per sales order.
	GetBySalesOrderID(ctx context.Context, soID id.ID) (*Invoice, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
}
