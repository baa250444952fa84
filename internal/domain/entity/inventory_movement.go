package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeSale       = "sale"
	MovementTypePurchase   = "purchase"
	MovementTypeAdjustment = "adjustment"
)

// InventoryMovement es un registro de auditoría append-only de un cambio de stock.
// La suma de QuantityDelta para una clave coincide con el stock actual de esa clave.
type InventoryMovement struct {
	ID            string
	CompanyID     string
	BranchID      string
	ProductID     string
	Type          string
	QuantityDelta int64 // negativo en ventas
	Reason        string
	Reference     string // p. ej. ID de la venta
	CreatedBy     string
	CreatedAt     time.Time
}
