package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct {
	s  *Store
	tx *txState
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	cp.Items = nil
	if r.tx != nil {
		if _, ok := r.tx.sales[sale.ID]; ok {
			return fmt.Errorf("insert sale: id duplicado")
		}
		r.tx.sales[sale.ID] = &cp
		r.tx.saleOrder = append(r.tx.saleOrder, sale.ID)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return fmt.Errorf("insert sale: id duplicado")
	}
	r.s.sales[sale.ID] = &cp
	r.s.saleOrder = append(r.s.saleOrder, sale.ID)
	return nil
}

// CreateItem exige que la cabecera exista (en la tx o confirmada), como la FK de sale_items.
func (r *saleRepo) CreateItem(_ context.Context, item *entity.SaleItem) error {
	if r.tx != nil {
		if sale, ok := r.tx.sales[item.SaleID]; ok {
			sale.Items = append(sale.Items, *item)
			return nil
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[item.SaleID]
	if !ok {
		return fmt.Errorf("insert sale_item: venta %s inexistente", item.SaleID)
	}
	sale.Items = append(sale.Items, *item)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if r.tx != nil {
		if sale, ok := r.tx.sales[id]; ok {
			return cloneSale(sale), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if sale, ok := r.s.sales[id]; ok {
		return cloneSale(sale), nil
	}
	return nil, nil
}

// ListByCompany devuelve las ventas más recientes primero.
func (r *saleRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Sale, 0)
	for i := len(r.s.saleOrder) - 1; i >= 0; i-- {
		sale := r.s.sales[r.s.saleOrder[i]]
		if sale.CompanyID == companyID {
			out = append(out, cloneSale(sale))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func cloneSale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	sort.SliceStable(cp.Items, func(i, j int) bool { return cp.Items[i].Line < cp.Items[j].Line })
	return &cp
}
