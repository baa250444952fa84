package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// InventoryRepository define el puerto para el stock por (empresa, sucursal, producto).
// Usado dentro de transacciones para garantizar consistencia.
type InventoryRepository interface {
	// Get devuelve nil, nil si no existe la fila.
	Get(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila de forma exclusiva hasta el fin de la transacción
	// (SELECT ... FOR UPDATE). Devuelve nil, nil si no existe.
	GetForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error)
	Create(ctx context.Context, inv *entity.Inventory) error
	UpdateStock(ctx context.Context, inv *entity.Inventory) error
	ListByCompany(ctx context.Context, companyID, branchID string) ([]*entity.Inventory, error)
	ListBelowReorderPoint(ctx context.Context, companyID, branchID string) ([]*entity.Inventory, error)
}
