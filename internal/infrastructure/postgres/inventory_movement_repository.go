package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx). Solo inserta.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (id, company_id, branch_id, product_id, movement_type, quantity_delta, reason, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.CompanyID, m.BranchID, m.ProductID, m.Type, m.QuantityDelta,
		m.Reason, m.Reference, nullString(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByKey devuelve el kardex de la clave en orden cronológico.
func (r *InventoryMovementRepo) ListByKey(ctx context.Context, key entity.InventoryKey) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, company_id, branch_id, product_id, movement_type, quantity_delta, reason, reference, created_by, created_at
		FROM inventory_movements
		WHERE company_id = $1 AND branch_id = $2 AND product_id = $3
		ORDER BY created_at, id`,
		key.CompanyID, key.BranchID, key.ProductID,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.BranchID, &m.ProductID, &m.Type, &m.QuantityDelta,
			&m.Reason, &m.Reference, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumDeltas suma quantity_delta de la clave (0 si no hay movimientos).
func (r *InventoryMovementRepo) SumDeltas(ctx context.Context, key entity.InventoryKey) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity_delta), 0)::bigint
		FROM inventory_movements
		WHERE company_id = $1 AND branch_id = $2 AND product_id = $3`,
		key.CompanyID, key.BranchID, key.ProductID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum inventory movements: %w", err)
	}
	return sum, nil
}
