// Package supplier provides the Supplier catalog.
// Suppliers are the counterparties of the purchase pipeline.
package supplier

import (
	"context"
	"strings"

	"github.com/Lahiru-2000/inventory-management-system/internal/core/apperror"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/entity"
)

// Supplier represents a vendor that purchase orders are placed with.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Email is the supplier contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Phone is the supplier contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is the postal address
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new active Supplier.
func New(name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Email != nil && *s.Email != "" && !strings.Contains(*s.Email, "@") {
		return apperror.NewValidation("invalid email address").
			WithDetail("field", "email")
	}

	return nil
}
