package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto append-only para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByKey(ctx context.Context, key entity.InventoryKey) ([]*entity.InventoryMovement, error)
	SumDeltas(ctx context.Context, key entity.InventoryKey) (int64, error)
}
