package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.CartRepository = (*cartRepo)(nil)

type cartRepo struct {
	s  *Store
	tx *txState
}

// view devuelve las líneas del usuario tal como las ve la transacción.
func (r *cartRepo) view(userID string) map[string]*entity.CartItem {
	r.s.mu.RLock()
	out := make(map[string]*entity.CartItem)
	for id, item := range r.s.cart {
		if item.UserID == userID {
			cp := *item
			out[id] = &cp
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for id := range r.tx.cartDeleted {
			delete(out, id)
		}
		for id, item := range r.tx.cartPut {
			if item.UserID == userID {
				cp := *item
				out[id] = &cp
			}
		}
	}
	return out
}

func (r *cartRepo) put(item *entity.CartItem) {
	cp := *item
	if r.tx != nil {
		delete(r.tx.cartDeleted, item.ID)
		r.tx.cartPut[item.ID] = &cp
		return
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cart[item.ID] = &cp
}

func (r *cartRepo) remove(id string) {
	if r.tx != nil {
		delete(r.tx.cartPut, id)
		r.tx.cartDeleted[id] = true
		return
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cart, id)
}

func (r *cartRepo) AddQuantity(_ context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	for _, cur := range r.view(item.UserID) {
		if cur.ProductID == item.ProductID {
			cur.Quantity += item.Quantity
			cur.UpdatedAt = item.UpdatedAt
			r.put(cur)
			return cur, nil
		}
	}
	cp := *item
	r.put(&cp)
	return &cp, nil
}

// ListByUser devuelve las líneas en orden de creación.
func (r *cartRepo) ListByUser(_ context.Context, userID string) ([]*entity.CartItem, error) {
	view := r.view(userID)
	out := make([]*entity.CartItem, 0, len(view))
	for _, item := range view {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *cartRepo) Delete(_ context.Context, userID, itemID string) error {
	if _, ok := r.view(userID)[itemID]; !ok {
		return domain.ErrNotFound
	}
	r.remove(itemID)
	return nil
}

// ConsumeItems registra el descuento; dentro de una tx se aplica al commit sobre el valor
// vigente en ese momento, así lo agregado entre la lectura y el commit no se pierde.
func (r *cartRepo) ConsumeItems(_ context.Context, userID string, consumed []*entity.CartItem) error {
	if r.tx != nil {
		for _, item := range consumed {
			if item.UserID == userID {
				r.tx.cartConsumed[item.ID] += item.Quantity
			}
		}
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range consumed {
		if cur, ok := r.s.cart[item.ID]; ok && cur.UserID == userID {
			r.s.consumeCartItem(item.ID, item.Quantity)
		}
	}
	return nil
}
