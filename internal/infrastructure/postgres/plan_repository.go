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

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo planes, catálogo de funcionalidades y asignación explícita plan ↔ funcionalidad.
type PlanRepo struct {
	q Querier
}

func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, code, name, description, monthly_price, branch_limit, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*entity.Plan, error) {
	var p entity.Plan
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.MonthlyPrice, &p.BranchLimit,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepo) Create(ctx context.Context, p *entity.Plan) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO plans (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Code, p.Name, p.Description, p.MonthlyPrice, p.BranchLimit, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

func (r *PlanRepo) GetByCode(ctx context.Context, code string) (*entity.Plan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan by code: %w", err)
	}
	return p, nil
}

func (r *PlanRepo) List(ctx context.Context) ([]*entity.Plan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY monthly_price, code`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	var list []*entity.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete borra el plan; la FK de subscriptions (RESTRICT) lo impide si sigue referenciado.
func (r *PlanRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError(domain.ErrConflict, domain.MsgPlanInUse)
		}
		return fmt.Errorf("delete plan: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PlanRepo) FeatureCodes(ctx context.Context, planID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT f.code
		FROM plan_feature_assignments a
		JOIN plan_features f ON f.id = a.feature_id
		WHERE a.plan_id = $1
		ORDER BY f.code`, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan features: %w", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan plan feature: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// SetFeatures reemplaza la asignación en una sola sentencia.
func (r *PlanRepo) SetFeatures(ctx context.Context, planID string, codes []string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1)`, planID).Scan(&exists); err != nil {
		return fmt.Errorf("check plan: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	var known int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM plan_features WHERE code = ANY($1)`, codes).Scan(&known); err != nil {
		return fmt.Errorf("check features: %w", err)
	}
	if known != len(codes) {
		return domain.ErrNotFound
	}
	_, err := r.q.Exec(ctx, `
		WITH wanted AS (
			SELECT id FROM plan_features WHERE code = ANY($2)
		), removed AS (
			DELETE FROM plan_feature_assignments
			WHERE plan_id = $1 AND feature_id NOT IN (SELECT id FROM wanted)
		)
		INSERT INTO plan_feature_assignments (plan_id, feature_id)
		SELECT $1, id FROM wanted
		ON CONFLICT DO NOTHING`, planID, codes)
	if err != nil {
		return fmt.Errorf("assign plan features: %w", err)
	}
	return nil
}

func (r *PlanRepo) ListFeatures(ctx context.Context) ([]*entity.PlanFeature, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, label, description FROM plan_features ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()
	var list []*entity.PlanFeature
	for rows.Next() {
		var f entity.PlanFeature
		if err := rows.Scan(&f.ID, &f.Code, &f.Label, &f.Description); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

func (r *PlanRepo) CountSubscriptions(ctx context.Context, planID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM subscriptions WHERE plan_id = $1`, planID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}
