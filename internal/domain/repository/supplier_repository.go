package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Supplier, error)
}
