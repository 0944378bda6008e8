package dto

import (
	"github.com/Lahiru-2000/inventory-management-system/internal/core/id"
	"github.com/Lahiru-2000/inventory-management-system/internal/domain/registers/stock"
)

// AdjustStockRequest sets an item's quantity to an absolute value.
type AdjustStockRequest struct {
	ItemID      id.ID  `json:"itemId" binding:"required"`
	NewQuantity int    `json:"newQuantity"`
	Reason      string `json:"reason" binding:"required"`
}

// ToServiceRequest maps the request to the stock service input.
func (r AdjustStockRequest) ToServiceRequest() stock.AdjustRequest {
	return stock.AdjustRequest{
		ItemID:      r.ItemID,
		NewQuantity: r.NewQuantity,
		Reason:      r.Reason,
	}
}

// TotalValueResponse is the monetary value of all stock on hand.
type TotalValueResponse struct {
	TotalValue string `json:"totalValue"`
}
