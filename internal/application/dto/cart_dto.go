package dto

import "time"

// AddCartItemRequest body para POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CheckoutRequest body para POST /api/cart/checkout.
type CheckoutRequest struct {
	BranchID      string `json:"branch_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash debit credit transfer"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
