package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// BranchUseCase crea y lista sucursales respetando el límite del plan contratado.
type BranchUseCase struct {
	branches      repository.BranchRepository
	subscriptions repository.SubscriptionRepository
	plans         repository.PlanRepository
	now           func() time.Time
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(branches repository.BranchRepository, subscriptions repository.SubscriptionRepository, plans repository.PlanRepository) *BranchUseCase {
	return &BranchUseCase{branches: branches, subscriptions: subscriptions, plans: plans, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *BranchUseCase) WithClock(now func() time.Time) *BranchUseCase {
	uc.now = now
	return uc
}

// Create crea una sucursal. Sin suscripción activa el límite es 0; un plan sin límite no restringe.
func (uc *BranchUseCase) Create(ctx context.Context, companyID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if companyID == "" {
		return nil, domain.ErrForbidden
	}
	now := uc.now()
	limit, err := uc.branchLimit(ctx, companyID, now)
	if err != nil {
		return nil, err
	}
	if limit != nil {
		count, err := uc.branches.CountByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if count >= *limit {
			return nil, domain.NewValidationError(domain.ErrForbidden, domain.MsgBranchLimitReached)
		}
	}
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.branches.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List devuelve las sucursales de la empresa.
func (uc *BranchUseCase) List(ctx context.Context, companyID string) ([]dto.BranchResponse, error) {
	list, err := uc.branches.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBranchResponse(b))
	}
	return out, nil
}

func (uc *BranchUseCase) branchLimit(ctx context.Context, companyID string, today time.Time) (*int, error) {
	sub, err := uc.subscriptions.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		zero := 0
		return &zero, nil
	}
	var plan *entity.Plan
	if sub.PlanID != nil {
		if plan, err = uc.plans.GetByID(ctx, *sub.PlanID); err != nil {
			return nil, err
		}
	}
	return sub.BranchLimit(plan, today), nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt,
	}
}
