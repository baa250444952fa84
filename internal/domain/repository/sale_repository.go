package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas confirmadas (sin edición ni borrado).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve la venta con sus ítems en orden de línea; nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error)
}
