package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository         = (*inventoryRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
)

type inventoryRepo struct {
	s  *Store
	tx *txState
}

func (r *inventoryRepo) Get(_ context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	if r.tx != nil {
		if inv, ok := r.tx.inventory[key]; ok {
			cp := *inv
			return &cp, nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if inv, ok := r.s.inventory[key]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate toma el bloqueo exclusivo de la clave (hasta Commit/Rollback) y
// luego lee el valor vigente. Fuera de transacción equivale a Get.
func (r *inventoryRepo) GetForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	if r.tx != nil {
		if err := r.s.lock(ctx, r.tx, key); err != nil {
			return nil, err
		}
	}
	return r.Get(ctx, key)
}

func (r *inventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	key := inv.Key()
	if r.tx != nil {
		if err := r.s.lock(ctx, r.tx, key); err != nil {
			return err
		}
	}
	cur, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if cur != nil {
		return domain.ErrDuplicate
	}
	if inv.Stock < 0 {
		return fmt.Errorf("insert inventory: stock negativo")
	}
	cp := *inv
	if r.tx != nil {
		r.tx.inventory[key] = &cp
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inventory[key] = &cp
	return nil
}

func (r *inventoryRepo) UpdateStock(ctx context.Context, inv *entity.Inventory) error {
	if inv.Stock < 0 {
		return fmt.Errorf("update inventory: stock negativo")
	}
	key := inv.Key()
	cur, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	cur.Stock = inv.Stock
	cur.ReorderPoint = inv.ReorderPoint
	cur.UpdatedAt = inv.UpdatedAt
	if r.tx != nil {
		r.tx.inventory[key] = cur
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.inventory[key] = cur
	return nil
}

func (r *inventoryRepo) ListByCompany(_ context.Context, companyID, branchID string) ([]*entity.Inventory, error) {
	return r.list(func(inv *entity.Inventory) bool {
		return inv.CompanyID == companyID && (branchID == "" || inv.BranchID == branchID)
	}), nil
}

// ListBelowReorderPoint devuelve las filas con stock <= punto de reorden.
func (r *inventoryRepo) ListBelowReorderPoint(_ context.Context, companyID, branchID string) ([]*entity.Inventory, error) {
	return r.list(func(inv *entity.Inventory) bool {
		return inv.CompanyID == companyID && (branchID == "" || inv.BranchID == branchID) &&
			inv.Stock <= inv.ReorderPoint
	}), nil
}

func (r *inventoryRepo) list(match func(*entity.Inventory) bool) []*entity.Inventory {
	r.s.mu.RLock()
	merged := make(map[entity.InventoryKey]*entity.Inventory, len(r.s.inventory))
	for k, inv := range r.s.inventory {
		merged[k] = inv
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for k, inv := range r.tx.inventory {
			merged[k] = inv
		}
	}
	out := make([]*entity.Inventory, 0)
	for _, inv := range merged {
		if match(inv) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BranchID != out[j].BranchID {
			return out[i].BranchID < out[j].BranchID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

type movementRepo struct {
	s  *Store
	tx *txState
}

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	cp := *m
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, &cp)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

// ListByKey devuelve los movimientos de la clave en orden de inserción.
func (r *movementRepo) ListByKey(_ context.Context, key entity.InventoryKey) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	all := append([]*entity.InventoryMovement(nil), r.s.movements...)
	r.s.mu.RUnlock()
	if r.tx != nil {
		all = append(all, r.tx.movements...)
	}
	out := make([]*entity.InventoryMovement, 0)
	for _, m := range all {
		if m.CompanyID == key.CompanyID && m.BranchID == key.BranchID && m.ProductID == key.ProductID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *movementRepo) SumDeltas(ctx context.Context, key entity.InventoryKey) (int64, error) {
	list, err := r.ListByKey(ctx, key)
	if err != nil {
		return 0, err
	}
	var sum int64
	for _, m := range list {
		sum += m.QuantityDelta
	}
	return sum, nil
}
