package goods_issue_note

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain"
)

// Repository defines operations for goods issue notes.
type Repository interface {
	Create(ctx context.Context, doc *GoodsIssueNote) error
	GetByID(ctx context.Context, docID id.ID) (*GoodsIssueNote, error)
	GetByNumber(ctx context.Context, number string) (*GoodsIssueNote, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*GoodsIssueNote, error)
	Update(ctx context.Context, doc *GoodsIssueNote) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	// SaveLines replaces the full line set of a document.
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*GoodsIssueNote], error)
}

// ListFilter for filtering goods issue notes.
type ListFilter struct {
	domain.ListFilter

	SalesOrderID *id.ID
	Status       *Status
	DateFrom     *time.Time
	DateTo       *time.Time
}
