package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carrito por usuario; una línea por (usuario, producto).
type CartRepo struct {
	q Querier
}

func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// AddQuantity inserta la línea o suma la cantidad a la existente.
func (r *CartRepo) AddQuantity(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	var out entity.CartItem
	err := r.q.QueryRow(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		item.ID, item.UserID, item.ProductID, item.Quantity, item.CreatedAt, item.UpdatedAt,
	).Scan(&out.ID, &out.UserID, &out.ProductID, &out.Quantity, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return &out, nil
}

func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CartItem, 0)
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina una línea propia; una línea ajena se lee como no encontrada.
func (r *CartRepo) Delete(ctx context.Context, userID, itemID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete cart item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ConsumeItems resta lo vendido a cada línea (el UPDATE toma el lock de fila, un AddQuantity
// concurrente espera al commit) y borra las que quedaron en cero.
func (r *CartRepo) ConsumeItems(ctx context.Context, userID string, consumed []*entity.CartItem) error {
	if len(consumed) == 0 {
		return nil
	}
	ids := make([]string, 0, len(consumed))
	for _, item := range consumed {
		_, err := r.q.Exec(ctx, `
			UPDATE cart_items SET quantity = quantity - $3
			WHERE id = $1 AND user_id = $2`,
			item.ID, userID, item.Quantity)
		if err != nil {
			return fmt.Errorf("consume cart item: %w", err)
		}
		ids = append(ids, item.ID)
	}
	_, err := r.q.Exec(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND id = ANY($2::uuid[]) AND quantity <= 0`, userID, ids)
	if err != nil {
		return fmt.Errorf("delete consumed cart items: %w", err)
	}
	return nil
}
