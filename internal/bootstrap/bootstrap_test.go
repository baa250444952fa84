package bootstrap_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/bootstrap"
	"github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
)

// ─── Catálogo ────────────────────────────────────────────────────────────────

func TestDefaultCatalog_LimitesEIDsEstables(t *testing.T) {
	a := bootstrap.DefaultCatalog()
	b := bootstrap.DefaultCatalog()

	require.Len(t, a.Plans, 3)
	limits := map[string]*int{}
	for i, e := range a.Plans {
		limits[e.Plan.Code] = e.Plan.BranchLimit
		assert.Equal(t, e.Plan.ID, b.Plans[i].Plan.ID)
		assert.Empty(t, e.Features, "los planes base usan la matriz por defecto")
	}
	require.NotNil(t, limits[entity.PlanBasico])
	assert.Equal(t, 1, *limits[entity.PlanBasico])
	assert.Equal(t, 3, *limits[entity.PlanEstandar])
	assert.Nil(t, limits[entity.PlanPremium])
	assert.Len(t, a.Features, 7)
}

func TestReadCatalogCSV_DecodificaLatin1(t *testing.T) {
	src := "# tipo;codigo;nombre\n" +
		"feature;sales;Ventas;\n" +
		"feature;reports;Reportes;Reposici\xf3n\n" +
		"plan;micro;B\xe1sico;9990.50;1;sales\n" +
		"plan;full;Completo;49990;;sales|reports\n"

	c, err := bootstrap.ReadCatalogCSV(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, c.Features, 2)
	assert.Equal(t, "Reposición", c.Features[1].Description)
	require.Len(t, c.Plans, 2)
	assert.Equal(t, "MICRO", c.Plans[0].Plan.Code)
	assert.Equal(t, "Básico", c.Plans[0].Plan.Name)
	assert.Equal(t, "9990.5", c.Plans[0].Plan.MonthlyPrice.String())
	assert.Equal(t, 1, *c.Plans[0].Plan.BranchLimit)
	assert.Nil(t, c.Plans[1].Plan.BranchLimit)
	assert.Equal(t, []string{"sales", "reports"}, c.Plans[1].Features)
	assert.NotEmpty(t, c.Plans[1].Plan.ID)
}

func TestReadCatalogCSV_RechazaFuncionalidadDesconocida(t *testing.T) {
	_, err := bootstrap.ReadCatalogCSV(strings.NewReader("feature;sales;Ventas\nplan;X;Equis;0;;sales|magia\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magia")
}

func TestReadCatalogCSV_RechazaPrecioNegativo(t *testing.T) {
	_, err := bootstrap.ReadCatalogCSV(strings.NewReader("plan;X;Equis;-1;;\n"))
	require.Error(t, err)
}

func TestReadCatalogCSV_ArchivoDelRepoCoincideConLaMatriz(t *testing.T) {
	f, err := os.Open("../../migrations/seed/plans.csv")
	require.NoError(t, err)
	defer f.Close()

	c, err := bootstrap.ReadCatalogCSV(f)
	require.NoError(t, err)
	require.Len(t, c.Plans, 3)
	for _, e := range c.Plans {
		assert.ElementsMatch(t, access.DefaultPlanMatrix[e.Plan.Code], e.Features, e.Plan.Code)
	}
	// mismos IDs que el catálogo por defecto
	def := bootstrap.DefaultCatalog()
	assert.Equal(t, def.Plans[0].Plan.ID, c.Plans[0].Plan.ID)
	assert.Equal(t, def.Features[0].ID, c.Features[0].ID)
}

func TestWriteSQL_GeneraInsercionesIdempotentes(t *testing.T) {
	c, err := bootstrap.ReadCatalogCSV(strings.NewReader("feature;sales;Ventas del d\xeda\nplan;X;O'Higgins;100;2;sales\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bootstrap.WriteSQL(&buf, c))
	sql := buf.String()

	assert.Contains(t, sql, "INSERT INTO plan_features")
	assert.Contains(t, sql, "'Ventas del día'")
	assert.Contains(t, sql, "'O''Higgins', '', 100.00, 2, true")
	assert.Contains(t, sql, "WHERE p.code = 'X' AND f.code = 'sales'")
	assert.Equal(t, 3, strings.Count(sql, "ON CONFLICT"))
}

func TestEnsurePlans_NoDuplicaNiPisaExistentes(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := bootstrap.DefaultCatalog()

	first, err := bootstrap.EnsurePlans(ctx, s.Plans(), c, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, first, 3)

	again, err := bootstrap.EnsurePlans(ctx, s.Plans(), bootstrap.DefaultCatalog(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, first[entity.PlanPremium].ID, again[entity.PlanPremium].ID)

	list, err := s.Plans().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

// ─── Super admin ─────────────────────────────────────────────────────────────

func TestEnsureSuperAdmin_CreaUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	created, err := bootstrap.EnsureSuperAdmin(ctx, s.Users(), " Root@Retail.cl ", "cambiar123", zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = bootstrap.EnsureSuperAdmin(ctx, s.Users(), "root@retail.cl", "otra-clave", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)

	u, err := s.Users().FindByEmail(ctx, "root@retail.cl")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.IsSuperAdmin())
	assert.Empty(t, u.CompanyID)
}

func TestEnsureSuperAdmin_SinEmailNoHaceNada(t *testing.T) {
	created, err := bootstrap.EnsureSuperAdmin(context.Background(), memory.NewStore().Users(), "", "", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created)
}

// ─── Demo ────────────────────────────────────────────────────────────────────

func TestSeedDemo_CreaEmpresaConStockInicial(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	plans, err := bootstrap.EnsurePlans(ctx, s.Plans(), bootstrap.DefaultCatalog(), zerolog.Nop())
	require.NoError(t, err)

	deps := bootstrap.DemoDeps{
		Companies:     s.Companies(),
		Branches:      s.Branches(),
		Products:      s.Products(),
		Suppliers:     s.Suppliers(),
		Users:         s.Users(),
		Subscriptions: s.Subscriptions(),
		Ledger:        inventory.NewLedger(s.TxRunner(), s.Inventory(), s.Movements(), s.Products(), s.Branches()),
	}
	require.NoError(t, bootstrap.SeedDemo(ctx, deps, plans, now, zerolog.Nop()))
	// segunda pasada: no-op
	require.NoError(t, bootstrap.SeedDemo(ctx, deps, plans, now, zerolog.Nop()))

	company, err := s.Companies().GetByRUT(ctx, bootstrap.DemoRUT)
	require.NoError(t, err)
	require.NotNil(t, company)

	sub, err := s.Subscriptions().GetByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.True(t, sub.IsActive(now.AddDate(0, 6, 0)))
	assert.Equal(t, plans[entity.PlanEstandar].ID, *sub.PlanID)

	branches, err := s.Branches().ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 3)

	products, err := s.Products().ListByCompany(ctx, company.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, products, 24)

	stock, err := s.Inventory().ListByCompany(ctx, company.ID, "")
	require.NoError(t, err)
	assert.Len(t, stock, 72)
	for _, inv := range stock {
		assert.GreaterOrEqual(t, inv.Stock, int64(20))
		assert.Less(t, inv.Stock, int64(100))
	}

	seller, err := s.Users().FindByEmail(ctx, "vendedor@example.com")
	require.NoError(t, err)
	require.NotNil(t, seller)
	assert.Equal(t, company.ID, seller.CompanyID)
}
