// Package sales_order provides the SalesOrder document.
// Sales orders carry customer details inline; goods leave stock only
// through goods issue notes created against a non-draft order.
package sales_order

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// Status is the sales order workflow state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusInvoiced  Status = "INVOICED"
	StatusCancelled Status = "CANCELLED"
)

// ValidStatuses lists every parseable status value.
func ValidStatuses() []string {
	return []string{
		string(StatusDraft), string(StatusConfirmed),
		string(StatusInvoiced), string(StatusCancelled),
	}
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusDraft, StatusConfirmed, StatusInvoiced, StatusCancelled:
		return Status(raw), nil
	}
	return "", apperror.NewInvalidStatus(raw, ValidStatuses())
}

// SalesOrder represents a customer order.
// Document.Number is the SO number; Document.Date is the order date.
type SalesOrder struct {
	entity.Document

	// Customer details are carried inline, not as a catalog reference
	CustomerName  string  `db:"customer_name" json:"customerName"`
	CustomerEmail *string `db:"customer_email" json:"customerEmail,omitempty"`
	CustomerPhone *string `db:"customer_phone" json:"customerPhone,omitempty"`

	// Status is the workflow state
	Status Status `db:"status" json:"status"`

	// Discount and Tax apply to the whole order
	Discount types.Money `db:"discount" json:"discount"`
	Tax      types.Money `db:"tax" json:"tax"`

	// TotalAmount = sum of line totals - discount + tax
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

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

// New creates a new draft sales order.
func New(customerName string) *SalesOrder {
	return &SalesOrder{
		Document:     entity.NewDocument(),
		CustomerName: customerName,
		Status:       StatusDraft,
		Discount:     types.ZeroMoney(),
		Tax:          types.ZeroMoney(),
		TotalAmount:  types.ZeroMoney(),
		Lines:        make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (o *SalesOrder) AddLine(itemID id.ID, quantity int, unitPrice types.Money) {
	o.Lines = append(o.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(o.Lines) + 1,
		ItemID:    itemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	o.RecalculateTotals()
}

// RecalculateTotals recomputes line totals and the order total.
// TotalAmount = sum of line totals - discount + tax.
func (o *SalesOrder) RecalculateTotals() {
	subtotal := types.ZeroMoney()
	for i := range o.Lines {
		o.Lines[i].LineNo = i + 1
		o.Lines[i].TotalPrice = types.LineTotal(o.Lines[i].UnitPrice, o.Lines[i].Quantity)
		subtotal = subtotal.Add(o.Lines[i].TotalPrice)
	}
	o.TotalAmount = subtotal.Sub(o.Discount).Add(o.Tax)
}

// Subtotal returns the line total sum before discount and tax.
func (o *SalesOrder) Subtotal() types.Money {
	return o.TotalAmount.Add(o.Discount).Sub(o.Tax)
}

// Validate implements entity.Validatable.
func (o *SalesOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if o.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if o.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	if o.Tax.IsNegative() {
		return apperror.NewValidation("tax cannot be negative").
			WithDetail("field", "tax")
	}

	if len(o.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range o.Lines {
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
// Only DRAFT orders are editable.
func (o *SalesOrder) CanEdit() error {
	if o.Status == StatusDraft {
		return nil
	}
	return apperror.NewPreconditionFailed("only draft sales orders can be edited").
		WithDetail("status", string(o.Status))
}
