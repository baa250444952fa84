package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
	domainaccess "github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// PlanUseCase administra planes y su asignación de funcionalidades (solo super_admin).
type PlanUseCase struct {
	plans repository.PlanRepository
}

func NewPlanUseCase(plans repository.PlanRepository) *PlanUseCase {
	return &PlanUseCase{plans: plans}
}

// Create crea un plan activo, sin asignación explícita (resuelve por matriz hasta que se asignen funcionalidades).
func (uc *PlanUseCase) Create(ctx context.Context, in dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if in.MonthlyPrice.IsNegative() {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgNegativeAmount)
	}
	now := time.Now()
	plan := &entity.Plan{
		ID:           uuid.New().String(),
		Code:         strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		MonthlyPrice: in.MonthlyPrice.Round(2),
		BranchLimit:  in.BranchLimit,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return toPlanResponse(plan, nil), nil
}

// List devuelve todos los planes con la variante de resolución y las funcionalidades efectivas.
func (uc *PlanUseCase) List(ctx context.Context) ([]dto.PlanResponse, error) {
	plans, err := uc.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		codes, err := uc.plans.FeatureCodes(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toPlanResponse(p, codes))
	}
	return out, nil
}

// SetFeatures reemplaza la asignación explícita. Una lista vacía vuelve a la matriz por defecto.
func (uc *PlanUseCase) SetFeatures(ctx context.Context, planID string, in dto.SetPlanFeaturesRequest) (*dto.PlanResponse, error) {
	plan, err := uc.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	codes := dedupe(in.Features)
	if err := uc.plans.SetFeatures(ctx, planID, codes); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgUnknownFeature)
		}
		return nil, err
	}
	return toPlanResponse(plan, codes), nil
}

// Delete elimina un plan. Devuelve ErrConflict mientras alguna suscripción lo referencie.
func (uc *PlanUseCase) Delete(ctx context.Context, planID string) error {
	n, err := uc.plans.CountSubscriptions(ctx, planID)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewValidationError(domain.ErrConflict, domain.MsgPlanInUse)
	}
	return uc.plans.Delete(ctx, planID)
}

// Features lista el catálogo de funcionalidades.
func (uc *PlanUseCase) Features(ctx context.Context) ([]*entity.PlanFeature, error) {
	return uc.plans.ListFeatures(ctx)
}

func toPlanResponse(p *entity.Plan, assigned []string) *dto.PlanResponse {
	strategy := domainaccess.Resolve(p.Code, assigned)
	features := assigned
	if strategy.Kind() == domainaccess.KindFallbackMatrix {
		features = domainaccess.DefaultPlanMatrix[p.Code]
	}
	return &dto.PlanResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		MonthlyPrice: p.MonthlyPrice,
		BranchLimit:  p.BranchLimit,
		IsActive:     p.IsActive,
		Strategy:     string(strategy.Kind()),
		Features:     append([]string{}, features...),
		CreatedAt:    p.CreatedAt,
	}
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if _, ok := seen[c]; ok || c == "" {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
