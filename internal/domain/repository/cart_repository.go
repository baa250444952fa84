package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// CartRepository define el puerto para el carrito transitorio de cada usuario.
type CartRepository interface {
	// AddQuantity suma qty a la línea (user, product), creándola si no existe.
	AddQuantity(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	Delete(ctx context.Context, userID, itemID string) error
	// ConsumeItems descuenta de cada línea del usuario la cantidad vendida por el checkout
	// y borra la que queda en cero. Lo agregado después de la lectura se conserva.
	ConsumeItems(ctx context.Context, userID string, consumed []*entity.CartItem) error
}
