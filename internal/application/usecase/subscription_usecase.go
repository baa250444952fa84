package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// SubscriptionUseCase asigna y cancela la suscripción de una empresa (solo super_admin).
type SubscriptionUseCase struct {
	subscriptions repository.SubscriptionRepository
	plans         repository.PlanRepository
	companies     repository.CompanyRepository
	now           func() time.Time
}

func NewSubscriptionUseCase(subscriptions repository.SubscriptionRepository, plans repository.PlanRepository, companies repository.CompanyRepository) *SubscriptionUseCase {
	return &SubscriptionUseCase{subscriptions: subscriptions, plans: plans, companies: companies, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SubscriptionUseCase) WithClock(now func() time.Time) *SubscriptionUseCase {
	uc.now = now
	return uc
}

// Assign crea o reemplaza la suscripción de la empresa. Requiere fin >= inicio.
// Reasignar conserva el ID existente y limpia CanceledAt si el nuevo estado es activo.
func (uc *SubscriptionUseCase) Assign(ctx context.Context, companyID string, in dto.AssignSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidDate)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidDate)
	}
	if end.Before(start) {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidDateRange)
	}
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	plan, err := uc.plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	status := in.Status
	if status == "" {
		status = entity.SubscriptionActive
	}
	now := uc.now()
	sub, err := uc.subscriptions.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = &entity.Subscription{ID: uuid.New().String(), CompanyID: companyID, CreatedAt: now}
	}
	planID := plan.ID
	sub.PlanID = &planID
	sub.StartDate = start
	sub.EndDate = end
	sub.Status = status
	if status == entity.SubscriptionActive {
		sub.CanceledAt = nil
	}
	sub.UpdatedAt = now
	if err := uc.subscriptions.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return toSubscriptionResponse(sub, now), nil
}

// Cancel cancela la suscripción. Es idempotente: una segunda llamada no vuelve a sellar la fecha.
func (uc *SubscriptionUseCase) Cancel(ctx context.Context, companyID string) (*dto.SubscriptionResponse, error) {
	sub, err := uc.subscriptions.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	if sub.Cancel(now) {
		if err := uc.subscriptions.Upsert(ctx, sub); err != nil {
			return nil, err
		}
	}
	return toSubscriptionResponse(sub, now), nil
}

// Get devuelve la suscripción vigente de la empresa.
func (uc *SubscriptionUseCase) Get(ctx context.Context, companyID string) (*dto.SubscriptionResponse, error) {
	sub, err := uc.subscriptions.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrNotFound
	}
	return toSubscriptionResponse(sub, uc.now()), nil
}

func toSubscriptionResponse(s *entity.Subscription, now time.Time) *dto.SubscriptionResponse {
	return &dto.SubscriptionResponse{
		ID:         s.ID,
		CompanyID:  s.CompanyID,
		PlanID:     s.PlanID,
		StartDate:  s.StartDate.Format(dateLayout),
		EndDate:    s.EndDate.Format(dateLayout),
		Status:     s.Status,
		IsActive:   s.IsActive(now),
		CanceledAt: s.CanceledAt,
	}
}
