package dto

import (
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/core/types"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/category"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/item"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/catalogs/supplier"
)

// --- Category ---

// CreateCategoryRequest for creating categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity maps the request to a new Category.
func (r CreateCategoryRequest) ToEntity() *category.Category {
	cat := category.New(r.Name)
	cat.Description = r.Description
	return cat
}

// UpdateCategoryRequest for updating categories. Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// ApplyTo maps the request onto an existing Category.
func (r UpdateCategoryRequest) ApplyTo(cat *category.Category) *category.Category {
	if r.Name != nil {
		cat.Name = *r.Name
	}
	if r.Description != nil {
		cat.Description = r.Description
	}
	if r.Active != nil {
		cat.Active = *r.Active
	}
	return cat
}

// --- Supplier ---

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// ToEntity maps the request to a new Supplier.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	sup := supplier.New(r.Name)
	sup.ContactPerson = r.ContactPerson
	sup.Email = r.Email
	sup.Phone = r.Phone
	sup.Address = r.Address
	return sup
}

// UpdateSupplierRequest for updating suppliers. Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Active        *bool   `json:"active"`
}

// ApplyTo maps the request onto an existing Supplier.
func (r UpdateSupplierRequest) ApplyTo(sup *supplier.Supplier) *supplier.Supplier {
	if r.Name != nil {
		sup.Name = *r.Name
	}
	if r.ContactPerson != nil {
		sup.ContactPerson = r.ContactPerson
	}
	if r.Email != nil {
		sup.Email = r.Email
	}
	if r.Phone != nil {
		sup.Phone = r.Phone
	}
	if r.Address != nil {
		sup.Address = r.Address
	}
	if r.Active != nil {
		sup.Active = *r.Active
	}
	return sup
}

// --- Item ---

// CreateItemRequest for creating items.
type CreateItemRequest struct {
	Name         string       `json:"name" binding:"required"`
	SKU          string       `json:"sku" binding:"required"`
	Description  *string      `json:"description"`
	CategoryID   id.ID        `json:"categoryId" binding:"required"`
	UnitPrice    *types.Money `json:"unitPrice"`
	ReorderLevel int          `json:"reorderLevel"`
}

// ToEntity maps the request to a new Item.
func (r CreateItemRequest) ToEntity() *item.Item {
	it := item.New(r.Name, r.SKU, r.CategoryID)
	it.Description = r.Description
	it.ReorderLevel = r.ReorderLevel
	if r.UnitPrice != nil {
		it.UnitPrice = *r.UnitPrice
	}
	return it
}

// UpdateItemRequest for updating items. Nil fields are left unchanged.
// SKU is deliberately immutable once assigned.
type UpdateItemRequest struct {
	Name         *string      `json:"name"`
	Description  *string      `json:"description"`
	CategoryID   *id.ID       `json:"categoryId"`
	UnitPrice    *types.Money `json:"unitPrice"`
	ReorderLevel *int         `json:"reorderLevel"`
	Active       *bool        `json:"active"`
}

// ApplyTo maps the request onto an existing Item.
func (r UpdateItemRequest) ApplyTo(it *item.Item) *item.Item {
	if r.Name != nil {
		it.Name = *r.Name
	}
	if r.Description != nil {
		it.Description = r.Description
	}
	if r.CategoryID != nil {
		it.CategoryID = *r.CategoryID
	}
	if r.UnitPrice != nil {
		it.UnitPrice = *r.UnitPrice
	}
	if r.ReorderLevel != nil {
		it.ReorderLevel = *r.ReorderLevel
	}
	if r.Active != nil {
		it.Active = *r.Active
	}
	return it
}
