package entity

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
)

// Document is the base type for business transactions.
// Examples: PurchaseOrder, GoodsReceiveNote, SalesOrder, GoodsIssueNote, Invoice.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique per type)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Remarks is an optional user comment
	Remarks string `db:"remarks" json:"remarks,omitempty"`
}

// NewDocument creates a new Document with generated ID, dated now.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
