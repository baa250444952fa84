package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/testutil"
)

func branchUseCase(f *testutil.Fixture) *usecase.BranchUseCase {
	return usecase.NewBranchUseCase(f.Store.Branches(), f.Store.Subscriptions(), f.Store.Plans()).
		WithClock(func() time.Time { return f.Now })
}

// ─── Límite de sucursales ────────────────────────────────────────────────────

func TestBranchUseCase_RespetaLimiteDelPlan(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Subscribe(t, f.CompanyA.ID, entity.PlanBasico, entity.SubscriptionActive)
	uc := branchUseCase(f)
	ctx := context.Background()

	// La empresa A ya tiene una sucursal; el plan básico permite tres.
	for i := 0; i < 2; i++ {
		_, err := uc.Create(ctx, f.CompanyA.ID, dto.CreateBranchRequest{Name: fmt.Sprintf("Local %d", i)})
		require.NoError(t, err)
	}

	_, err := uc.Create(ctx, f.CompanyA.ID, dto.CreateBranchRequest{Name: "Local extra"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.MsgBranchLimitReached, err.Error())

	list, err := uc.List(ctx, f.CompanyA.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestBranchUseCase_PremiumSinLimite(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Subscribe(t, f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionActive)
	uc := branchUseCase(f)

	for i := 0; i < 5; i++ {
		_, err := uc.Create(context.Background(), f.CompanyA.ID, dto.CreateBranchRequest{Name: fmt.Sprintf("Local %d", i)})
		require.NoError(t, err)
	}
}

func TestBranchUseCase_SinSuscripcionActivaNoCrea(t *testing.T) {
	f := testutil.NewFixture(t)
	uc := branchUseCase(f)

	_, err := uc.Create(context.Background(), f.CompanyB.ID, dto.CreateBranchRequest{Name: "Norte"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "sin suscripción el límite es 0")

	f.Subscribe(t, f.CompanyB.ID, entity.PlanPremium, entity.SubscriptionCancelled)
	_, err = uc.Create(context.Background(), f.CompanyB.ID, dto.CreateBranchRequest{Name: "Norte"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "cancelada tampoco habilita sucursales")
}

func TestBranchUseCase_NombreDuplicado(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Subscribe(t, f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionActive)

	_, err := branchUseCase(f).Create(context.Background(), f.CompanyA.ID, dto.CreateBranchRequest{Name: f.BranchA.Name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
