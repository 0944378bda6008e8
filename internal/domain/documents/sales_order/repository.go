package sales_order

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines operations for sales order documents.
type Repository interface {
	Create(ctx context.Context, doc *SalesOrder) error
	GetByID(ctx context.Context, docID id.ID) (*SalesOrder, error)
	GetByNumber(ctx context.Context, number string) (*SalesOrder, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*SalesOrder, error)
	Update(ctx context.Context, doc *SalesOrder) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	// SaveLines replaces the full line set of a document.
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*SalesOrder], error)
}

// ListFilter for filtering sales orders.
type ListFilter struct {
	domain.ListFilter

	Status   *Status
	Customer string
	DateFrom *time.Time
	DateTo   *time.Time
}
