// Package goods_issue_note provides the GoodsIssueNote (GIN) document.
// Creating or editing a GIN is the sole operation that decreases stock
// on hand; edits reverse prior decrements before reapplying new ones.
package goods_issue_note

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// Status is the goods issue note workflow state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// ValidStatuses lists every parseable status value.
func ValidStatuses() []string {
	return []string{
		string(StatusDraft), string(StatusConfirmed), string(StatusCancelled),
	}
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return Status(raw), nil
	}
	return "", apperror.NewInvalidStatus(raw, ValidStatuses())
}

// GoodsIssueNote records goods leaving stock against a sales order.
// Document.Number is the GIN number; Document.Date is the issue date.
type GoodsIssueNote struct {
	entity.Document

	// SalesOrderID references the sales order being fulfilled
	SalesOrderID id.ID `db:"sales_order_id" json:"salesOrderId"`

	// IssuedBy is the user who released the goods
	IssuedBy string `db:"issued_by" json:"issuedBy,omitempty"`

	// Status is the workflow state
	Status Status `db:"status" json:"status"`

	// Denormalized for reads (join, never stored)
	SONumber     string `db:"so_number" json:"soNumber,omitempty"`
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`

	// Table part: issued lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one issued item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID          id.ID       `db:"item_id" json:"itemId"`
	QuantityOrdered int         `db:"quantity_ordered" json:"quantityOrdered"`
	QuantityIssued  int         `db:"quantity_issued" json:"quantityIssued"`
	UnitPrice       types.Money `db:"unit_price" json:"unitPrice"`
	TotalPrice      types.Money `db:"total_price" json:"totalPrice"`

	// Denormalized for reads
	ItemName string `db:"item_name" json:"itemName,omitempty"`
	ItemSKU  string `db:"item_sku" json:"itemSku,omitempty"`
}

// New creates a new draft goods issue note for a sales order.
func New(salesOrderID id.ID) *GoodsIssueNote {
	return &GoodsIssueNote{
		Document:     entity.NewDocument(),
		SalesOrderID: salesOrderID,
		Status:       StatusDraft,
		Lines:        make([]Line, 0),
	}
}

// RecalculateTotals recomputes line totals from issued quantities.
func (g *GoodsIssueNote) RecalculateTotals() {
	for i := range g.Lines {
		g.Lines[i].LineNo = i + 1
		g.Lines[i].TotalPrice = types.LineTotal(g.Lines[i].UnitPrice, g.Lines[i].QuantityIssued)
	}
}

// Validate implements entity.Validatable.
func (g *GoodsIssueNote) Validate(ctx context.Context) error {
	if err := g.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(g.SalesOrderID) {
		return apperror.NewValidation("sales order is required").
			WithDetail("field", "salesOrderId")
	}

	if len(g.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range g.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.QuantityIssued <= 0 {
			return apperror.NewValidation("issued quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanEdit reports whether the note may still be modified.
// Only DRAFT notes are editable.
func (g *GoodsIssueNote) CanEdit() error {
	if g.Status == StatusDraft {
		return nil
	}
	return apperror.NewPreconditionFailed("only draft goods issue notes can be edited").
		WithDetail("status", string(g.Status))
}
