package inventory

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario y ventas.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// FeatureChecker consulta si el plan del usuario habilita una funcionalidad.
type FeatureChecker interface {
	Allows(ctx context.Context, user *entity.User, featureCode string) bool
}
