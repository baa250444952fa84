package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo stock por (empresa, sucursal, producto) sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, company_id, branch_id, product_id, stock, reorder_point, updated_at`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := row.Scan(&inv.ID, &inv.CompanyID, &inv.BranchID, &inv.ProductID, &inv.Stock,
		&inv.ReorderPoint, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Get obtiene la fila sin bloquearla.
func (r *InventoryRepo) Get(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory WHERE company_id = $1 AND branch_id = $2 AND product_id = $3`,
		key.CompanyID, key.BranchID, key.ProductID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetForUpdate obtiene la fila y la bloquea hasta el fin de la tx (SELECT FOR UPDATE).
// Si vence lock_timeout devuelve domain.ErrConflict.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, key entity.InventoryKey) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory WHERE company_id = $1 AND branch_id = $2 AND product_id = $3
		FOR UPDATE`,
		key.CompanyID, key.BranchID, key.ProductID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("lock inventory %s/%s: %w", key.BranchID, key.ProductID, domain.ErrConflict)
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return inv, nil
}

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO inventory (`+inventoryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.CompanyID, inv.BranchID, inv.ProductID, inv.Stock, inv.ReorderPoint, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// UpdateStock escribe stock y punto de reorden. El CHECK (stock >= 0) es la última barrera.
func (r *InventoryRepo) UpdateStock(ctx context.Context, inv *entity.Inventory) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory SET stock = $4, reorder_point = $5, updated_at = $6
		WHERE company_id = $1 AND branch_id = $2 AND product_id = $3`,
		inv.CompanyID, inv.BranchID, inv.ProductID, inv.Stock, inv.ReorderPoint, inv.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.NewValidationError(domain.ErrInsufficientStock, domain.MsgInsufficientStock)
		}
		return fmt.Errorf("update inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista el stock de la empresa; branchID vacío = todas las sucursales.
func (r *InventoryRepo) ListByCompany(ctx context.Context, companyID, branchID string) ([]*entity.Inventory, error) {
	return r.list(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE company_id = $1 AND ($2 = '' OR branch_id::text = $2)
		ORDER BY branch_id, product_id`, companyID, branchID)
}

// ListBelowReorderPoint filas con stock <= punto de reorden.
func (r *InventoryRepo) ListBelowReorderPoint(ctx context.Context, companyID, branchID string) ([]*entity.Inventory, error) {
	return r.list(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory
		WHERE company_id = $1 AND ($2 = '' OR branch_id::text = $2) AND stock <= reorder_point
		ORDER BY branch_id, product_id`, companyID, branchID)
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
