package invoice

import (
	"context"
	"strings"
	"time"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
)

// PaymentStatus tracks how far along payment collection is.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentOverdue       PaymentStatus = "OVERDUE"
)

// ValidPaymentStatuses returns all recognized payment statuses.
func ValidPaymentStatuses() []string {
	return []string{
		string(PaymentPending),
		string(PaymentPartiallyPaid),
		string(PaymentPaid),
		string(PaymentOverdue),
	}
}

// ParsePaymentStatus converts a raw string into a PaymentStatus.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	status := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case PaymentPending, PaymentPartiallyPaid, PaymentPaid, PaymentOverdue:
		return status, nil
	}
	return "", apperror.NewInvalidStatus(raw, ValidPaymentStatuses())
}

// Invoice is the financial document finalizing a sales order.
// Its monetary figures are a snapshot of the order at invoicing time and
// never change afterwards, even if the order is edited.
type Invoice struct {
	entity.Document

	SalesOrderID  id.ID         `db:"sales_order_id" json:"salesOrderId"`
	DueDate       *time.Time    `db:"due_date" json:"dueDate,omitempty"`
	Subtotal      types.Money   `db:"subtotal" json:"subtotal"`
	Discount      types.Money   `db:"discount" json:"discount"`
	Tax           types.Money   `db:"tax" json:"tax"`
	TotalAmount   types.Money   `db:"total_amount" json:"totalAmount"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	// Denormalized, filled by joins at read time.
	SONumber     string `db:"so_number" json:"soNumber,omitempty"`
	CustomerName string `db:"customer_name" json:"customerName,omitempty"`
}

// Validate checks the invoice for consistency.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(inv.SalesOrderID) {
		return apperror.NewValidation("sales order is required")
	}
	if inv.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative")
	}
	if inv.Tax.IsNegative() {
		return apperror.NewValidation("tax cannot be negative")
	}
	return nil
}
