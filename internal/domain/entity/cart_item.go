package entity

import "time"

// CartItem es una línea transitoria del carrito de un usuario, previa al checkout.
type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
