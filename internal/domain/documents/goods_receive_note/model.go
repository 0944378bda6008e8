// Package goods_receive_note provides the GoodsReceiveNote (GRN) document.
// Creating a GRN against an approved purchase order is the sole operation
// that increases stock on hand.
package goods_receive_note

import (
	"context"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
)

// GoodsReceiveNote records goods physically received from a supplier.
// Document.Number is the GRN number; Document.Date is the receive date.
type GoodsReceiveNote struct {
	entity.Document

	// PurchaseOrderID references the approved purchase order
	PurchaseOrderID id.ID `db:"purchase_order_id" json:"purchaseOrderId"`

	// ReceivedBy is the user who accepted the delivery
	ReceivedBy string `db:"received_by" json:"receivedBy,omitempty"`

	// Denormalized for reads (join, never stored)
	PONumber     string `db:"po_number" json:"poNumber,omitempty"`
	SupplierName string `db:"supplier_name" json:"supplierName,omitempty"`

	// Table part: received lines mirroring the PO lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one received item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID           id.ID `db:"item_id" json:"itemId"`
	QuantityOrdered  int   `db:"quantity_ordered" json:"quantityOrdered"`
	QuantityReceived int   `db:"quantity_received" json:"quantityReceived"`

	// Denormalized for reads
	ItemName string `db:"item_name" json:"itemName,omitempty"`
	ItemSKU  string `db:"item_sku" json:"itemSku,omitempty"`
}

// New creates a new goods receive note for a purchase order.
func New(purchaseOrderID id.ID) *GoodsReceiveNote {
	return &GoodsReceiveNote{
		Document:        entity.NewDocument(),
		PurchaseOrderID: purchaseOrderID,
		Lines:           make([]Line, 0),
	}
}

// Validate implements entity.Validatable.
func (g *GoodsReceiveNote) Validate(ctx context.Context) error {
	if err := g.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(g.PurchaseOrderID) {
		return apperror.NewValidation("purchase order is required").
			WithDetail("field", "purchaseOrderId")
	}

	if len(g.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i := range g.Lines {
		g.Lines[i].LineNo = i + 1
		if id.IsNil(g.Lines[i].ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if g.Lines[i].QuantityReceived <= 0 {
			return apperror.NewValidation("received quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
