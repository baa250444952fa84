package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// PlanRepository define el puerto de persistencia para planes y su asignación de funcionalidades.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByCode(ctx context.Context, code string) (*entity.Plan, error)
	List(ctx context.Context) ([]*entity.Plan, error)
	Delete(ctx context.Context, id string) error
	// FeatureCodes devuelve los códigos asignados explícitamente al plan (vacío = sin asignación).
	FeatureCodes(ctx context.Context, planID string) ([]string, error)
	// SetFeatures reemplaza la asignación explícita del plan. Códigos desconocidos → ErrNotFound.
	SetFeatures(ctx context.Context, planID string, codes []string) error
	ListFeatures(ctx context.Context) ([]*entity.PlanFeature, error)
	CountSubscriptions(ctx context.Context, planID string) (int, error)
}
