package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/bootstrap"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/infrastructure/memory"
	"github.com/jhoicas/retail-api/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-api/pkg/config"
)

// stores agrupa los repositorios del driver elegido.
type stores struct {
	companies     repository.CompanyRepository
	branches      repository.BranchRepository
	products      repository.ProductRepository
	suppliers     repository.SupplierRepository
	users         repository.UserRepository
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	inventory     repository.InventoryRepository
	movements     repository.InventoryMovementRepository
	sales         repository.SaleRepository
	cart          repository.CartRepository
	txRunner      inventory.TxRunner

	pool *pgxpool.Pool // nil con driver memory
}

func (s *stores) close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	pool, err := postgres.Connect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	return &stores{
		companies:     postgres.NewCompanyRepository(pool),
		branches:      postgres.NewBranchRepository(pool),
		products:      postgres.NewProductRepository(pool),
		suppliers:     postgres.NewSupplierRepository(pool),
		users:         postgres.NewUserRepository(pool),
		plans:         postgres.NewPlanRepository(pool),
		subscriptions: postgres.NewSubscriptionRepository(pool),
		inventory:     postgres.NewInventoryRepository(pool),
		movements:     postgres.NewInventoryMovementRepository(pool),
		sales:         postgres.NewSaleRepository(pool),
		cart:          postgres.NewCartRepository(pool),
		txRunner:      postgres.NewTxRunner(pool, cfg.Sales.LockTimeout),
		pool:          pool,
	}, nil
}

// openMemory arma el almacén en memoria con el catálogo de funcionalidades ya cargado;
// en Postgres las funcionalidades vienen del script generado por cmd/seed_plans.
func openMemory(catalog *bootstrap.Catalog) *stores {
	m := memory.NewStore()
	for _, f := range catalog.Features {
		m.AddFeature(f)
	}
	return &stores{
		companies:     m.Companies(),
		branches:      m.Branches(),
		products:      m.Products(),
		suppliers:     m.Suppliers(),
		users:         m.Users(),
		plans:         m.Plans(),
		subscriptions: m.Subscriptions(),
		inventory:     m.Inventory(),
		movements:     m.Movements(),
		sales:         m.Sales(),
		cart:          m.Cart(),
		txRunner:      m.TxRunner(),
	}
}

// seed carga planes, super_admin y (opcionalmente) la empresa demo.
func seed(ctx context.Context, cfg *config.Config, st *stores, catalog *bootstrap.Catalog, ledger *inventory.Ledger, log zerolog.Logger) error {
	plans, err := bootstrap.EnsurePlans(ctx, st.plans, catalog, log)
	if err != nil {
		return err
	}
	if _, err := bootstrap.EnsureSuperAdmin(ctx, st.users, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, log); err != nil {
		return err
	}
	if !cfg.Bootstrap.Demo {
		return nil
	}
	if cfg.App.StoreDriver != config.StoreDriverMemory {
		log.Warn().Msg("BOOTSTRAP_DEMO solo aplica con STORE_DRIVER=memory")
		return nil
	}
	return bootstrap.SeedDemo(ctx, bootstrap.DemoDeps{
		Companies:     st.companies,
		Branches:      st.branches,
		Products:      st.products,
		Suppliers:     st.suppliers,
		Users:         st.users,
		Subscriptions: st.subscriptions,
		Ledger:        ledger,
	}, plans, time.Now().UTC(), log)
}
