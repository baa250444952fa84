package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// DemoPassword es la contraseña de los usuarios demo.
const DemoPassword = "demo12345"

// DemoRUT identifica la empresa demo; si ya existe, SeedDemo no hace nada.
const DemoRUT = "11111111-1"

// EnsureSuperAdmin crea el super_admin inicial si el email no está registrado.
// Email vacío desactiva el paso. Devuelve true si creó el usuario.
func EnsureSuperAdmin(ctx context.Context, users repository.UserRepository, email, password string, log zerolog.Logger) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("buscar super_admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrador",
		Role:         entity.RoleSuperAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return false, fmt.Errorf("crear super_admin: %w", err)
	}
	log.Info().Str("email", email).Msg("super_admin creado")
	return true, nil
}

// DemoDeps son los puertos que usa SeedDemo.
type DemoDeps struct {
	Companies     repository.CompanyRepository
	Branches      repository.BranchRepository
	Products      repository.ProductRepository
	Suppliers     repository.SupplierRepository
	Users         repository.UserRepository
	Subscriptions repository.SubscriptionRepository
	Ledger        *inventory.Ledger
}

var demoCategories = []string{"Electrónica", "Oficina", "Hogar", "Outdoor", "Computación"}

// SeedDemo crea "Demo SA" con suscripción ESTANDAR por 365 días, tres usuarios
// (admin_cliente, gerente, vendedor), tres sucursales, 24 productos, cinco proveedores
// y el inventario inicial de cada producto en cada sucursal.
func SeedDemo(ctx context.Context, d DemoDeps, plans map[string]*entity.Plan, now time.Time, log zerolog.Logger) error {
	existing, err := d.Companies.GetByRUT(ctx, DemoRUT)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Debug().Msg("empresa demo ya existe")
		return nil
	}
	plan, ok := plans[entity.PlanEstandar]
	if !ok {
		return fmt.Errorf("plan %s no está en el catálogo", entity.PlanEstandar)
	}

	company := &entity.Company{ID: uuid.NewString(), Name: "Demo SA", RUT: DemoRUT, CreatedAt: now, UpdatedAt: now}
	if err := d.Companies.Create(ctx, company); err != nil {
		return fmt.Errorf("crear empresa demo: %w", err)
	}
	planID := plan.ID
	sub := &entity.Subscription{
		ID:        uuid.NewString(),
		CompanyID: company.ID,
		PlanID:    &planID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 365),
		Status:    entity.SubscriptionActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.Subscriptions.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("crear suscripción demo: %w", err)
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	var admin *entity.User
	for _, role := range []string{entity.RoleAdminCliente, entity.RoleGerente, entity.RoleVendedor} {
		u := &entity.User{
			ID:           uuid.NewString(),
			CompanyID:    company.ID,
			Email:        role + "@example.com",
			PasswordHash: hash,
			Name:         role,
			Role:         role,
			Status:       entity.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := d.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("crear usuario %s: %w", u.Email, err)
		}
		if role == entity.RoleAdminCliente {
			admin = u
		}
	}

	branches := []*entity.Branch{
		{Name: "Casa Matriz", Address: "Santiago Centro", Phone: "2222 1111"},
		{Name: "Sucursal Norte", Address: "Antofagasta", Phone: "2222 3333"},
		{Name: "Sucursal Sur", Address: "Concepción", Phone: "2222 5555"},
	}
	for _, b := range branches {
		b.ID, b.CompanyID, b.CreatedAt, b.UpdatedAt = uuid.NewString(), company.ID, now, now
		if err := d.Branches.Create(ctx, b); err != nil {
			return fmt.Errorf("crear sucursal %s: %w", b.Name, err)
		}
	}

	products := make([]*entity.Product, 0, 24)
	for i := 1; i <= 24; i++ {
		price := decimal.NewFromInt(5000 + int64(i)*350)
		p := &entity.Product{
			ID:          uuid.NewString(),
			CompanyID:   company.ID,
			SKU:         fmt.Sprintf("SKU-%03d", i),
			Name:        fmt.Sprintf("Producto %d", i),
			Description: fmt.Sprintf("Producto demo número %d", i),
			Category:    demoCategories[i%len(demoCategories)],
			Price:       price,
			Cost:        price.Mul(decimal.RequireFromString("0.6")).Round(2),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := d.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("crear producto %s: %w", p.SKU, err)
		}
		products = append(products, p)
	}

	suppliers := []*entity.Supplier{
		{Name: "Proveedor Andes", RUT: "44444444-4", ContactName: "Ana Torres", Email: "ana@andes.cl", Phone: "+56 9 1111 1111"},
		{Name: "Logística Sur", RUT: "55555555-5", ContactName: "Carlos Rojas", Email: "carlos@logs.cl", Phone: "+56 9 2222 2222"},
		{Name: "Insumos Norte", RUT: "66666666-6", ContactName: "Marcela Díaz", Email: "marcela@insumosnorte.cl", Phone: "+56 9 3333 3333"},
		{Name: "Tech Partners", RUT: "77777777-7", ContactName: "Jorge Silva", Email: "jorge@techpartners.cl", Phone: "+56 9 4444 4444"},
		{Name: "Distribuidora Centro", RUT: "88888888-8", ContactName: "Paula Zamora", Email: "paula@dcentro.cl", Phone: "+56 9 5555 5555"},
	}
	for _, s := range suppliers {
		s.ID, s.CompanyID, s.CreatedAt, s.UpdatedAt = uuid.NewString(), company.ID, now, now
		if err := d.Suppliers.Create(ctx, s); err != nil {
			return fmt.Errorf("crear proveedor %s: %w", s.Name, err)
		}
	}

	for idx, p := range products {
		for bIdx, b := range branches {
			_, err := d.Ledger.OpenInventory(ctx, inventory.OpenInventoryInput{
				CompanyID:    company.ID,
				UserID:       admin.ID,
				BranchID:     b.ID,
				ProductID:    p.ID,
				InitialStock: int64(20 + (idx*3+bIdx*5)%80),
				ReorderPoint: int64(8 + idx%5),
			})
			if err != nil {
				return fmt.Errorf("abrir inventario %s/%s: %w", b.Name, p.SKU, err)
			}
		}
	}

	log.Info().
		Str("company_id", company.ID).
		Int("branches", len(branches)).
		Int("products", len(products)).
		Msg("datos demo creados")
	return nil
}
