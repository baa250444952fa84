package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/testutil"
)

func TestCompanyUseCase_CreateNormalizaRUT(t *testing.T) {
	f := testutil.NewFixture(t)
	uc := usecase.NewCompanyUseCase(f.Store.Companies())
	ctx := context.Background()

	resp, err := uc.Create(ctx, dto.CreateCompanyRequest{Name: " Ferretería Sur ", RUT: "76.086.428-5"})
	require.NoError(t, err)
	assert.Equal(t, "76086428-5", resp.RUT)
	assert.Equal(t, "Ferretería Sur", resp.Name)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{Name: "Otra", RUT: "76086428-5"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCompanyUseCase_CreateRechazaRUTInvalido(t *testing.T) {
	f := testutil.NewFixture(t)
	uc := usecase.NewCompanyUseCase(f.Store.Companies())

	_, err := uc.Create(context.Background(), dto.CreateCompanyRequest{Name: "X", RUT: "76086428-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.MsgInvalidRUT, err.Error())
}

func TestCompanyUseCase_UpdateSoloCambiaNombre(t *testing.T) {
	f := testutil.NewFixture(t)
	uc := usecase.NewCompanyUseCase(f.Store.Companies())
	ctx := context.Background()

	name := "Almacén Uno Ltda."
	resp, err := uc.Update(ctx, f.CompanyA.ID, dto.UpdateCompanyRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, resp.Name)
	assert.Equal(t, f.CompanyA.RUT, resp.RUT)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateCompanyRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyUseCase_ListPaginaPorDefecto(t *testing.T) {
	f := testutil.NewFixture(t)
	uc := usecase.NewCompanyUseCase(f.Store.Companies())

	list, err := uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 20, list.Page.Limit)
}
