// Package purchase_order provides the PurchaseOrder document.
// A purchase order is the request to a supplier; received goods enter
// stock only through a goods receive note created against an approved order.
package purchase_order

import (
	"context"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// Status is the purchase order workflow state.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
)

// ValidStatuses lists every parseable status value.
func ValidStatuses() []string {
	return []string{
		string(StatusDraft), string(StatusPendingApproval),
		string(StatusApproved), string(StatusRejected),
	}
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
		return Status(raw), nil
	}
	return "", apperror.NewInvalidStatus(raw, ValidStatuses())
}

// PurchaseOrder represents an order placed with a supplier.
// Document.Number is the PO number; Document.Date is the order date.
type PurchaseOrder struct {
	entity.Document

	// SupplierID references the supplier catalog
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// DueDate is the expected delivery date
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// Status is the workflow state
	Status Status `db:"status" json:"status"`

	// ApprovedBy records who approved or rejected the order
	ApprovedBy *string `db:"approved_by" json:"approvedBy,omitempty"`

	// TotalAmount is the sum of line totals
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// SupplierName is denormalized for reads (join, never stored)
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Table part: ordered lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one ordered item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID     id.ID       `db:"item_id" json:"itemId"`
	Quantity   int         `db:"quantity" json:"quantity"`
	UnitPrice  types.Money `db:"unit_price" json:"unitPrice"`
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// Denormalized for reads
	ItemName string `db:"item_name" json:"itemName,omitempty"`
	ItemSKU  string `db:"item_sku" json:"itemSku,omitempty"`
}

// New creates a new draft purchase order.
func New(supplierID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document:    entity.NewDocument(),
		SupplierID:  supplierID,
		Status:      StatusDraft,
		TotalAmount: types.ZeroMoney(),
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (p *PurchaseOrder) AddLine(itemID id.ID, quantity int, unitPrice types.Money) {
	p.Lines = append(p.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	p.RecalculateTotals()
}

// RecalculateTotals recomputes every line total and the document total.
// Line totals are always derived, never trusted from input.
func (p *PurchaseOrder) RecalculateTotals() {
	total := types.ZeroMoney()
	for i := range p.Lines {
		p.Lines[i].LineNo = i + 1
		p.Lines[i].TotalPrice = types.LineTotal(p.Lines[i].UnitPrice, p.Lines[i].Quantity)
		total = total.Add(p.Lines[i].TotalPrice)
	}
	p.TotalAmount = total
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
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

// CanEdit reports whether the order may still be modified.
// Only DRAFT and PENDING_APPROVAL orders are editable.
func (p *PurchaseOrder) CanEdit() error {
	if p.Status == StatusDraft || p.Status == StatusPendingApproval {
		return nil
	}
	return apperror.NewPreconditionFailed("purchase order can no longer be edited").
		WithDetail("status", string(p.Status))
}

// CanDecide reports whether the order may be approved or rejected.
// APPROVED and REJECTED are terminal for the approval workflow.
func (p *PurchaseOrder) CanDecide() error {
	if p.Status == StatusDraft || p.Status == StatusPendingApproval {
		return nil
	}
	return apperror.NewPreconditionFailed("purchase order has already been decided").
		WithDetail("status", string(p.Status))
}
