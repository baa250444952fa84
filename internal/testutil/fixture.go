// Package testutil arma un escenario multi-empresa sobre el almacén en memoria
// para los tests de los casos de uso.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appaccess "github.com/jhoicas/retail-api/internal/application/access"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
)

// Fixture: empresa A (sucursal A, productos A y A2) y empresa B (sucursal B, producto B).
type Fixture struct {
	Store *memory.Store
	Now   time.Time

	CompanyA, CompanyB *entity.Company
	BranchA, BranchB   *entity.Branch
	ProductA           *entity.Product
	ProductA2          *entity.Product
	ProductB           *entity.Product
	SellerA, SellerB   *entity.User
	SuperAdmin         *entity.User
	Plans              map[string]*entity.Plan
}

// NewFixture crea el escenario. Las empresas no tienen suscripción: usar Subscribe.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	f := &Fixture{
		Store:      s,
		Now:        now,
		CompanyA:   &entity.Company{ID: "company-a", Name: "Almacén Uno", RUT: "11111111-1", CreatedAt: now},
		CompanyB:   &entity.Company{ID: "company-b", Name: "Almacén Dos", RUT: "22222222-2", CreatedAt: now},
		BranchA:    &entity.Branch{ID: "branch-a", CompanyID: "company-a", Name: "Centro", CreatedAt: now},
		BranchB:    &entity.Branch{ID: "branch-b", CompanyID: "company-b", Name: "Centro", CreatedAt: now},
		ProductA:   &entity.Product{ID: "product-a", CompanyID: "company-a", SKU: "A-001", Name: "Arroz 1kg", Price: decimal.NewFromInt(1000), Cost: decimal.NewFromInt(600), CreatedAt: now},
		ProductA2:  &entity.Product{ID: "product-a2", CompanyID: "company-a", SKU: "A-002", Name: "Aceite 1L", Price: decimal.NewFromInt(2500), Cost: decimal.NewFromInt(1800), CreatedAt: now},
		ProductB:   &entity.Product{ID: "product-b", CompanyID: "company-b", SKU: "B-001", Name: "Azúcar 1kg", Price: decimal.NewFromInt(900), Cost: decimal.NewFromInt(500), CreatedAt: now},
		SellerA:    &entity.User{ID: "seller-a", CompanyID: "company-a", Email: "a@uno.cl", Role: entity.RoleVendedor, Status: entity.UserStatusActive},
		SellerB:    &entity.User{ID: "seller-b", CompanyID: "company-b", Email: "b@dos.cl", Role: entity.RoleVendedor, Status: entity.UserStatusActive},
		SuperAdmin: &entity.User{ID: "root", Email: "root@retail.cl", Role: entity.RoleSuperAdmin, Status: entity.UserStatusActive},
		Plans:      make(map[string]*entity.Plan),
	}

	require.NoError(t, s.Companies().Create(ctx, f.CompanyA))
	require.NoError(t, s.Companies().Create(ctx, f.CompanyB))
	require.NoError(t, s.Branches().Create(ctx, f.BranchA))
	require.NoError(t, s.Branches().Create(ctx, f.BranchB))
	for _, p := range []*entity.Product{f.ProductA, f.ProductA2, f.ProductB} {
		require.NoError(t, s.Products().Create(ctx, p))
	}
	for _, u := range []*entity.User{f.SellerA, f.SellerB, f.SuperAdmin} {
		require.NoError(t, s.Users().Create(ctx, u))
	}

	for _, code := range []string{
		entity.FeatureInventory, entity.FeatureSales, entity.FeatureOrders, entity.FeaturePOS,
		entity.FeatureReports, entity.FeatureUserManagement, entity.FeatureBranchesUnlimited,
	} {
		s.AddFeature(&entity.PlanFeature{ID: "feature-" + code, Code: code, Label: code})
	}
	three := 3
	for _, p := range []*entity.Plan{
		{ID: "plan-basico", Code: entity.PlanBasico, Name: "Básico", MonthlyPrice: decimal.NewFromInt(19990), BranchLimit: &three, IsActive: true},
		{ID: "plan-estandar", Code: entity.PlanEstandar, Name: "Estándar", MonthlyPrice: decimal.NewFromInt(39990), BranchLimit: &three, IsActive: true},
		{ID: "plan-premium", Code: entity.PlanPremium, Name: "Premium", MonthlyPrice: decimal.NewFromInt(79990), IsActive: true},
	} {
		require.NoError(t, s.Plans().Create(ctx, p))
		f.Plans[p.Code] = p
	}
	return f
}

// Subscribe asigna a la empresa el plan indicado con vigencia que cubre Now.
func (f *Fixture) Subscribe(t testing.TB, companyID, planCode, status string) *entity.Subscription {
	t.Helper()
	planID := f.Plans[planCode].ID
	sub := &entity.Subscription{
		ID:        "sub-" + companyID,
		CompanyID: companyID,
		PlanID:    &planID,
		StartDate: f.Now.AddDate(0, -1, 0),
		EndDate:   f.Now.AddDate(0, 11, 0),
		Status:    status,
	}
	require.NoError(t, f.Store.Subscriptions().Upsert(context.Background(), sub))
	return sub
}

// Ledger devuelve el libro de inventario sobre el almacén.
func (f *Fixture) Ledger() *inventory.Ledger {
	return inventory.NewLedger(
		f.Store.TxRunner(),
		f.Store.Inventory(),
		f.Store.Movements(),
		f.Store.Products(),
		f.Store.Branches(),
	)
}

// Engine devuelve el motor de ventas con el reloj fijo en Now.
func (f *Fixture) Engine(publisher sales.SalePublisher) *sales.Engine {
	return sales.NewEngine(
		f.Store.TxRunner(),
		f.Ledger(),
		f.Store.Branches(),
		f.Store.Products(),
		f.Store.Sales(),
		publisher,
		zerolog.Nop(),
	).WithClock(func() time.Time { return f.Now })
}

// Gate devuelve el resolvedor de funcionalidades con el reloj fijo en Now.
func (f *Fixture) Gate() *appaccess.FeatureGate {
	return appaccess.NewFeatureGate(
		f.Store.Companies(),
		f.Store.Subscriptions(),
		f.Store.Plans(),
		zerolog.Nop(),
	).WithClock(func() time.Time { return f.Now })
}

// OpenStock abre la fila de inventario con stock inicial (y su movimiento de apertura).
func (f *Fixture) OpenStock(t testing.TB, branch *entity.Branch, product *entity.Product, stock, reorderPoint int64) {
	t.Helper()
	_, err := f.Ledger().OpenInventory(context.Background(), inventory.OpenInventoryInput{
		CompanyID:    branch.CompanyID,
		UserID:       "seed",
		BranchID:     branch.ID,
		ProductID:    product.ID,
		InitialStock: stock,
		ReorderPoint: reorderPoint,
	})
	require.NoError(t, err)
}

// StockOf devuelve el stock vigente (o -1 si no hay fila).
func (f *Fixture) StockOf(t testing.TB, branch *entity.Branch, product *entity.Product) int64 {
	t.Helper()
	inv, err := f.Store.Inventory().Get(context.Background(), entity.InventoryKey{
		CompanyID: branch.CompanyID, BranchID: branch.ID, ProductID: product.ID,
	})
	require.NoError(t, err)
	if inv == nil {
		return -1
	}
	return inv.Stock
}

// Key arma la clave de inventario.
func Key(branch *entity.Branch, product *entity.Product) entity.InventoryKey {
	return entity.InventoryKey{CompanyID: branch.CompanyID, BranchID: branch.ID, ProductID: product.ID}
}
