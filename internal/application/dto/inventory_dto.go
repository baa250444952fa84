package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenInventoryRequest body para POST /api/inventory.
type OpenInventoryRequest struct {
	BranchID     string `json:"branch_id" validate:"required"`
	ProductID    string `json:"product_id" validate:"required"`
	InitialStock int64  `json:"initial_stock" validate:"min=0"`
	ReorderPoint int64  `json:"reorder_point" validate:"min=0"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity es positiva en compras y con signo en ajustes.
type RegisterMovementRequest struct {
	BranchID  string           `json:"branch_id" validate:"required"`
	ProductID string           `json:"product_id" validate:"required"`
	Type      string           `json:"type" validate:"required,oneof=purchase adjustment"`
	Quantity  int64            `json:"quantity" validate:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"omitempty,max=200"`
}

// InventoryResponse fila de stock.
type InventoryResponse struct {
	ID           string    `json:"id"`
	BranchID     string    `json:"branch_id"`
	ProductID    string    `json:"product_id"`
	Stock        int64     `json:"stock"`
	ReorderPoint int64     `json:"reorder_point"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovementResponse movimiento del kardex.
type MovementResponse struct {
	ID            string    `json:"id"`
	BranchID      string    `json:"branch_id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	QuantityDelta int64     `json:"quantity_delta"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReconciliationResponse compara el stock contra la suma de movimientos.
type ReconciliationResponse struct {
	BranchID    string `json:"branch_id"`
	ProductID   string `json:"product_id"`
	Stock       int64  `json:"stock"`
	MovementSum int64  `json:"movement_sum"`
	Balanced    bool   `json:"balanced"`
}

// ReplenishmentItemResponse sugerencia de reposición para un producto bajo su punto de reorden.
type ReplenishmentItemResponse struct {
	BranchID      string          `json:"branch_id"`
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Stock         int64           `json:"stock"`
	ReorderPoint  int64           `json:"reorder_point"`
	SuggestedQty  int64           `json:"suggested_qty"`  // 2*reorder_point - stock
	UnitCost      decimal.Decimal `json:"unit_cost"`      // costo promedio ponderado
	EstimatedCost decimal.Decimal `json:"estimated_cost"` // SuggestedQty * UnitCost
}

// ReplenishmentResponse vista del reporte; degradada si el plan no habilita reportes.
type ReplenishmentResponse struct {
	ReportsEnabled bool                        `json:"reports_enabled"`
	Notice         string                      `json:"notice,omitempty"`
	Items          []ReplenishmentItemResponse `json:"items"`
}
