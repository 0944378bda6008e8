package goods_receive_note

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines operations for goods receive notes.
// GRNs are immutable once created; there is no update.
type Repository interface {
	Create(ctx context.Context, doc *GoodsReceiveNote) error
	GetByID(ctx context.Context, docID id.ID) (*GoodsReceiveNote, error)
	GetByNumber(ctx context.Context, number string) (*GoodsReceiveNote, error)

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsReceiveNote], error)
}

// ListFilter for filtering goods receive notes.
type ListFilter struct {
	domain.ListFilter

	PurchaseOrderID *id.ID
	DateFrom        *time.Time
	DateTo          *time.Time
}
