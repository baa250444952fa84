package entity

import "time"

// InventoryKey identifica una fila de stock: (empresa, sucursal, producto).
type InventoryKey struct {
	CompanyID string
	BranchID  string
	ProductID string
}

// Inventory es el stock mutable de un producto en una sucursal. Stock nunca es negativo.
type Inventory struct {
	ID           string
	CompanyID    string
	BranchID     string
	ProductID    string
	Stock        int64
	ReorderPoint int64
	UpdatedAt    time.Time
}

// Key devuelve la clave única de la fila.
func (i *Inventory) Key() InventoryKey {
	return InventoryKey{CompanyID: i.CompanyID, BranchID: i.BranchID, ProductID: i.ProductID}
}

// TenantID implementa tenant.Owned.
func (i *Inventory) TenantID() string { return i.CompanyID }
