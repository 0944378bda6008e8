package dto

import (
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_issue_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/goods_receive_note"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/invoice"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/purchase_order"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/documents/sales_order"
)

// --- Purchase Order ---

// PurchaseOrderLineRequest is one ordered item.
// Line totals are always recomputed server-side.
type PurchaseOrderLineRequest struct {
	ItemID    id.ID       `json:"itemId" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required"`
	UnitPrice types.Money `json:"unitPrice"`
}

// CreatePurchaseOrderRequest for creating purchase orders.
type CreatePurchaseOrderRequest struct {
	SupplierID id.ID                      `json:"supplierId" binding:"required"`
	Date       *time.Time                 `json:"date"`
	DueDate    *time.Time                 `json:"dueDate"`
	Remarks    string                     `json:"remarks"`
	Lines      []PurchaseOrderLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a new PurchaseOrder.
func (r CreatePurchaseOrderRequest) ToEntity() *purchase_order.PurchaseOrder {
	doc := purchase_order.New(r.SupplierID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.DueDate = r.DueDate
	doc.Remarks = r.Remarks
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.UnitPrice)
	}
	return doc
}

// UpdatePurchaseOrderRequest replaces the editable fields of a purchase order.
// The full line set is replaced.
type UpdatePurchaseOrderRequest struct {
	SupplierID *id.ID                     `json:"supplierId"`
	Date       *time.Time                 `json:"date"`
	DueDate    *time.Time                 `json:"dueDate"`
	Remarks    *string                    `json:"remarks"`
	Lines      []PurchaseOrderLineRequest `json:"lines" binding:"required"`
}

// ApplyTo maps the request onto an existing PurchaseOrder.
func (r UpdatePurchaseOrderRequest) ApplyTo(doc *purchase_order.PurchaseOrder) *purchase_order.PurchaseOrder {
	if r.SupplierID != nil {
		doc.SupplierID = *r.SupplierID
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.DueDate != nil {
		doc.DueDate = r.DueDate
	}
	if r.Remarks != nil {
		doc.Remarks = *r.Remarks
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.UnitPrice)
	}
	return doc
}

// DecisionRequest carries the approver for approve/reject operations.
type DecisionRequest struct {
	DecidedBy string `json:"decidedBy" binding:"required"`
}

// --- Goods Receive Note ---

// GoodsReceiveNoteLineRequest is one received item.
type GoodsReceiveNoteLineRequest struct {
	ItemID           id.ID `json:"itemId" binding:"required"`
	QuantityOrdered  int   `json:"quantityOrdered"`
	QuantityReceived int   `json:"quantityReceived" binding:"required"`
}

// CreateGoodsReceiveNoteRequest for recording goods received against a purchase order.
type CreateGoodsReceiveNoteRequest struct {
	PurchaseOrderID id.ID                         `json:"purchaseOrderId" binding:"required"`
	Date            *time.Time                    `json:"date"`
	ReceivedBy      string                        `json:"receivedBy"`
	Remarks         string                        `json:"remarks"`
	Lines           []GoodsReceiveNoteLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a new GoodsReceiveNote.
func (r CreateGoodsReceiveNoteRequest) ToEntity() *goods_receive_note.GoodsReceiveNote {
	doc := goods_receive_note.New(r.PurchaseOrderID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.ReceivedBy = r.ReceivedBy
	doc.Remarks = r.Remarks
	for i, line := range r.Lines {
		doc.Lines = append(doc.Lines, goods_receive_note.Line{
			LineID:           id.New(),
			LineNo:           i + 1,
			ItemID:           line.ItemID,
			QuantityOrdered:  line.QuantityOrdered,
			QuantityReceived: line.QuantityReceived,
		})
	}
	return doc
}

// --- Sales Order ---

// SalesOrderLineRequest is one sold item.
type SalesOrderLineRequest struct {
	ItemID    id.ID       `json:"itemId" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required"`
	UnitPrice types.Money `json:"unitPrice"`
}

// CreateSalesOrderRequest for creating sales orders.
type CreateSalesOrderRequest struct {
	CustomerName  string                  `json:"customerName" binding:"required"`
	CustomerEmail *string                 `json:"customerEmail"`
	CustomerPhone *string                 `json:"customerPhone"`
	Date          *time.Time              `json:"date"`
	Discount      *types.Money            `json:"discount"`
	Tax           *types.Money            `json:"tax"`
	Remarks       string                  `json:"remarks"`
	Lines         []SalesOrderLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a new SalesOrder.
func (r CreateSalesOrderRequest) ToEntity() *sales_order.SalesOrder {
	doc := sales_order.New(r.CustomerName)
	doc.CustomerEmail = r.CustomerEmail
	doc.CustomerPhone = r.CustomerPhone
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Discount != nil {
		doc.Discount = *r.Discount
	}
	if r.Tax != nil {
		doc.Tax = *r.Tax
	}
	doc.Remarks = r.Remarks
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.UnitPrice)
	}
	return doc
}

// UpdateSalesOrderRequest replaces the editable fields of a sales order.
// The full line set is replaced.
type UpdateSalesOrderRequest struct {
	CustomerName  *string                 `json:"customerName"`
	CustomerEmail *string                 `json:"customerEmail"`
	CustomerPhone *string                 `json:"customerPhone"`
	Date          *time.Time              `json:"date"`
	Discount      *types.Money            `json:"discount"`
	Tax           *types.Money            `json:"tax"`
	Remarks       *string                 `json:"remarks"`
	Lines         []SalesOrderLineRequest `json:"lines" binding:"required"`
}

// ApplyTo maps the request onto an existing SalesOrder.
func (r UpdateSalesOrderRequest) ApplyTo(doc *sales_order.SalesOrder) *sales_order.SalesOrder {
	if r.CustomerName != nil {
		doc.CustomerName = *r.CustomerName
	}
	if r.CustomerEmail != nil {
		doc.CustomerEmail = r.CustomerEmail
	}
	if r.CustomerPhone != nil {
		doc.CustomerPhone = r.CustomerPhone
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Discount != nil {
		doc.Discount = *r.Discount
	}
	if r.Tax != nil {
		doc.Tax = *r.Tax
	}
	if r.Remarks != nil {
		doc.Remarks = *r.Remarks
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.UnitPrice)
	}
	return doc
}

// --- Goods Issue Note ---

// GoodsIssueNoteLineRequest is one issued item.
type GoodsIssueNoteLineRequest struct {
	ItemID          id.ID       `json:"itemId" binding:"required"`
	QuantityOrdered int         `json:"quantityOrdered"`
	QuantityIssued  int         `json:"quantityIssued" binding:"required"`
	UnitPrice       types.Money `json:"unitPrice"`
}

// CreateGoodsIssueNoteRequest for issuing goods against a sales order.
type CreateGoodsIssueNoteRequest struct {
	SalesOrderID id.ID                       `json:"salesOrderId" binding:"required"`
	Date         *time.Time                  `json:"date"`
	IssuedBy     string                      `json:"issuedBy"`
	Remarks      string                      `json:"remarks"`
	Lines        []GoodsIssueNoteLineRequest `json:"lines" binding:"required"`
}

// ToEntity maps the request to a new GoodsIssueNote.
// Notes always start in DRAFT; confirmation is a separate status call.
func (r CreateGoodsIssueNoteRequest) ToEntity() *goods_issue_note.GoodsIssueNote {
	doc := goods_issue_note.New(r.SalesOrderID)
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.IssuedBy = r.IssuedBy
	doc.Remarks = r.Remarks
	doc.Lines = issueLines(r.Lines)
	return doc
}

func issueLines(lines []GoodsIssueNoteLineRequest) []goods_issue_note.Line {
	out := make([]goods_issue_note.Line, 0, len(lines))
	for i, line := range lines {
		out = append(out, goods_issue_note.Line{
			LineID:          id.New(),
			LineNo:          i + 1,
			ItemID:          line.ItemID,
			QuantityOrdered: line.QuantityOrdered,
			QuantityIssued:  line.QuantityIssued,
			UnitPrice:       line.UnitPrice,
		})
	}
	return out
}

// UpdateGoodsIssueNoteRequest replaces the editable fields of a goods issue note.
// The full line set is replaced; stock is re-applied from scratch.
type UpdateGoodsIssueNoteRequest struct {
	Date     *time.Time                  `json:"date"`
	IssuedBy *string                     `json:"issuedBy"`
	Remarks  *string                     `json:"remarks"`
	Lines    []GoodsIssueNoteLineRequest `json:"lines" binding:"required"`
}

// ApplyTo maps the request onto an existing GoodsIssueNote.
func (r UpdateGoodsIssueNoteRequest) ApplyTo(doc *goods_issue_note.GoodsIssueNote) *goods_issue_note.GoodsIssueNote {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.IssuedBy != nil {
		doc.IssuedBy = *r.IssuedBy
	}
	if r.Remarks != nil {
		doc.Remarks = *r.Remarks
	}
	doc.Lines = issueLines(r.Lines)
	return doc
}

// --- Invoice ---

// CreateInvoiceRequest generates an invoice from a sales order.
// The financial figures are snapshotted from the order, never supplied here.
type CreateInvoiceRequest struct {
	SalesOrderID id.ID      `json:"salesOrderId" binding:"required"`
	Date         *time.Time `json:"date"`
	DueDate      *time.Time `json:"dueDate"`
	Remarks      string     `json:"remarks"`
}

// ToServiceRequest maps the request to the invoice service input.
func (r CreateInvoiceRequest) ToServiceRequest() invoice.CreateRequest {
	req := invoice.CreateRequest{
		SalesOrderID: r.SalesOrderID,
		DueDate:      r.DueDate,
		Remarks:      r.Remarks,
	}
	if r.Date != nil {
		req.Date = *r.Date
	}
	return req
}

// UpdatePaymentStatusRequest moves an invoice to a new payment state.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}
