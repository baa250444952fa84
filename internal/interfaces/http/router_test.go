package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/cart"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/infrastructure/locking"
	"github.com/jhoicas/retail-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/retail-api/internal/interfaces/http"
	"github.com/jhoicas/retail-api/internal/testutil"
	pkgjwt "github.com/jhoicas/retail-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Armado de la API sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type apiEnv struct {
	f   *testutil.Fixture
	app *fiber.App
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	f := testutil.NewFixture(t)
	s := f.Store
	clock := func() time.Time { return f.Now }

	gate := f.Gate()
	engine := f.Engine(nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:         usecase.NewUserUseCase(s.Users()),
		CompanyUC:      usecase.NewCompanyUseCase(s.Companies()),
		BranchUC:       usecase.NewBranchUseCase(s.Branches(), s.Subscriptions(), s.Plans()).WithClock(clock),
		ProductUC:      usecase.NewProductUseCase(s.Products()),
		SupplierUC:     usecase.NewSupplierUseCase(s.Suppliers()),
		PlanUC:         usecase.NewPlanUseCase(s.Plans()),
		SubscriptionUC: usecase.NewSubscriptionUseCase(s.Subscriptions(), s.Plans(), s.Companies()).WithClock(clock),
		FeatureGate:    gate,
		Ledger:         f.Ledger(),
		Replenishment:  inventory.NewReplenishmentUseCase(gate, s.Inventory(), s.Products()),
		SalesEngine:    engine,
		Receipts:       sales.NewReceiptUseCase(engine, s.Companies(), s.Branches(), s.Products(), pdf.NewMarotoPDFGenerator()),
		Cart:           cart.NewUseCase(s.Cart(), s.Products(), s.Branches(), engine, locking.NewLocalLocker()),
		Health:         apphttp.NewHealthHandler("retail-api-test", nil),
		JWTSecret:      testJWTSecret,
	})
	return &apiEnv{f: f, app: app}
}

func (e *apiEnv) token(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, u.CompanyID, u.Role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

// do ejecuta la petición como el usuario indicado (nil = sin token) y decodifica el JSON en out.
func (e *apiEnv) do(t *testing.T, as *entity.User, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, as))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *apiEnv) salesCount(t *testing.T, companyID string) int {
	t.Helper()
	list, err := e.f.Store.Sales().ListByCompany(context.Background(), companyID, 100, 0)
	require.NoError(t, err)
	return len(list)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ─── Ventas ──────────────────────────────────────────────────────────────────

func TestAPI_VentaConfirmadaDescuentaStock(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 10, 2)

	var sale struct {
		ID    string `json:"id"`
		Total string `json:"total"`
		Items []struct {
			Line     int   `json:"line"`
			Quantity int64 `json:"quantity"`
		} `json:"items"`
	}
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/sales", map[string]interface{}{
		"branch_id":      e.f.BranchA.ID,
		"payment_method": "cash",
		"items": []map[string]interface{}{
			{"product_id": e.f.ProductA.ID, "quantity": 3, "unit_price": "1000"},
		},
	}, &sale)

	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "3000", sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(7), e.f.StockOf(t, e.f.BranchA, e.f.ProductA))

	var fetched map[string]interface{}
	assert.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/sales/"+sale.ID, nil, &fetched))
	assert.Equal(t, http.StatusNotFound, e.do(t, e.f.SellerB, http.MethodGet, "/api/sales/"+sale.ID, nil, nil),
		"una venta de otra empresa se lee como inexistente")
}

func TestAPI_VentaSinInventarioRetorna400YNoCreaVenta(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/sales", map[string]interface{}{
		"branch_id":      e.f.BranchA.ID,
		"payment_method": "cash",
		"items":          []map[string]interface{}{{"product_id": e.f.ProductA.ID, "quantity": 1, "unit_price": "1000"}},
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVENTORY_NOT_FOUND", body.Code)
	assert.Equal(t, "inventario no encontrado para el producto/sucursal", body.Message)
	assert.Zero(t, e.salesCount(t, e.f.CompanyA.ID))
}

func TestAPI_VentaConStockInsuficienteRetornaMensajeVisible(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 2, 0)

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/sales", map[string]interface{}{
		"branch_id":      e.f.BranchA.ID,
		"payment_method": "debit",
		"items":          []map[string]interface{}{{"product_id": e.f.ProductA.ID, "quantity": 5, "unit_price": "1000"}},
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, int64(2), e.f.StockOf(t, e.f.BranchA, e.f.ProductA))
}

func TestAPI_VentaValidaElCuerpo(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/sales", map[string]interface{}{
		"branch_id":      e.f.BranchA.ID,
		"payment_method": "cheque",
		"items":          []map[string]interface{}{{"product_id": e.f.ProductA.ID, "quantity": 1}},
	}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestAPI_SinSuscripcionVigenteVentasRetorna403(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionExpired)

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodGet, "/api/sales", nil, &body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FEATURE_DISABLED", body.Code)
}

func TestAPI_ComprobantePDF(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 5, 0)

	var sale struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, e.do(t, e.f.SellerA, http.MethodPost, "/api/sales", map[string]interface{}{
		"branch_id":      e.f.BranchA.ID,
		"payment_method": "cash",
		"items":          []map[string]interface{}{{"product_id": e.f.ProductA.ID, "quantity": 1, "unit_price": "1000"}},
	}, &sale))

	req := httptest.NewRequest(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+e.token(t, e.f.SellerA))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta_")
}

// ─── Carrito ─────────────────────────────────────────────────────────────────

func TestAPI_CarritoRechazaProductoAjeno(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/cart/items",
		map[string]interface{}{"product_id": e.f.ProductB.ID, "quantity": 1}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "TENANT_MISMATCH", body.Code)
	assert.Equal(t, "producto no pertenece a la empresa del usuario", body.Message)
}

func TestAPI_CheckoutEnSucursalAjenaRetorna400YConservaCarrito(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 5, 0)

	require.Equal(t, http.StatusCreated, e.do(t, e.f.SellerA, http.MethodPost, "/api/cart/items",
		map[string]interface{}{"product_id": e.f.ProductA.ID, "quantity": 2}, nil))

	var body errorBody
	status := e.do(t, e.f.SellerA, http.MethodPost, "/api/cart/checkout",
		map[string]interface{}{"branch_id": e.f.BranchB.ID, "payment_method": "cash"}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "sucursal inválida", body.Message)

	var items []map[string]interface{}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/cart", nil, &items))
	assert.Len(t, items, 1)
	assert.Zero(t, e.salesCount(t, e.f.CompanyA.ID))
}

func TestAPI_CheckoutConfirmaVentaYVaciaCarrito(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanEstandar, entity.SubscriptionActive)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 5, 0)

	require.Equal(t, http.StatusCreated, e.do(t, e.f.SellerA, http.MethodPost, "/api/cart/items",
		map[string]interface{}{"product_id": e.f.ProductA.ID, "quantity": 2}, nil))

	var sale struct {
		Total string `json:"total"`
	}
	require.Equal(t, http.StatusCreated, e.do(t, e.f.SellerA, http.MethodPost, "/api/cart/checkout",
		map[string]interface{}{"branch_id": e.f.BranchA.ID, "payment_method": "transfer"}, &sale))
	assert.Equal(t, "2000", sale.Total, "el precio sale del producto al momento del checkout")

	var items []map[string]interface{}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/cart", nil, &items))
	assert.Empty(t, items)
	assert.Equal(t, int64(3), e.f.StockOf(t, e.f.BranchA, e.f.ProductA))
}

// ─── Reportes y funcionalidades ──────────────────────────────────────────────

func TestAPI_ReporteSeDegradaConSuscripcionCanceladaYVuelveAlReactivar(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionCancelled)
	e.f.OpenStock(t, e.f.BranchA, e.f.ProductA, 1, 5)

	var report struct {
		ReportsEnabled bool                     `json:"reports_enabled"`
		Notice         string                   `json:"notice"`
		Items          []map[string]interface{} `json:"items"`
	}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/reports/replenishment", nil, &report))
	assert.False(t, report.ReportsEnabled)
	assert.NotEmpty(t, report.Notice)
	assert.Empty(t, report.Items)

	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionActive)
	require.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/reports/replenishment", nil, &report))
	assert.True(t, report.ReportsEnabled)
	require.Len(t, report.Items, 1)
	assert.EqualValues(t, 9, report.Items[0]["suggested_qty"])
}

func TestAPI_ConsultaDeFuncionalidad(t *testing.T) {
	e := newAPI(t)
	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanBasico, entity.SubscriptionActive)

	var out struct {
		Feature string `json:"feature"`
		Allowed bool   `json:"allowed"`
	}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SellerA, http.MethodGet, "/api/features/reports", nil, &out))
	assert.Equal(t, "reports", out.Feature)
	assert.False(t, out.Allowed)

	require.Equal(t, http.StatusOK, e.do(t, e.f.SuperAdmin, http.MethodGet, "/api/features/reports", nil, &out))
	assert.True(t, out.Allowed, "super_admin omite plan")
}

// ─── Sesión y administración ─────────────────────────────────────────────────

func TestAPI_UsuarioBloqueadoNoOpera(t *testing.T) {
	e := newAPI(t)
	blocked := &entity.User{ID: "blocked", CompanyID: e.f.CompanyA.ID, Email: "x@uno.cl", Role: entity.RoleVendedor, Status: entity.UserStatusBlocked}
	require.NoError(t, e.f.Store.Users().Create(context.Background(), blocked))

	assert.Equal(t, http.StatusUnauthorized, e.do(t, blocked, http.MethodGet, "/api/me", nil, nil))
}

func TestAPI_AdministracionSoloSuperAdmin(t *testing.T) {
	e := newAPI(t)

	assert.Equal(t, http.StatusForbidden, e.do(t, e.f.SellerA, http.MethodGet, "/api/admin/plans", nil, nil))

	var plans []map[string]interface{}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SuperAdmin, http.MethodGet, "/api/admin/plans", nil, &plans))
	assert.Len(t, plans, 3)
}

func TestAPI_SuperAdminAsignaYCancelaSuscripcion(t *testing.T) {
	e := newAPI(t)
	path := "/api/admin/companies/" + e.f.CompanyA.ID + "/subscription"

	var body errorBody
	status := e.do(t, e.f.SuperAdmin, http.MethodPut, path, map[string]interface{}{
		"plan_id": e.f.Plans[entity.PlanPremium].ID, "start_date": "2026-07-01", "end_date": "2026-06-01",
	}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "fecha fin debe ser posterior a inicio", body.Message)

	var sub struct {
		Status   string `json:"status"`
		IsActive bool   `json:"is_active"`
	}
	require.Equal(t, http.StatusOK, e.do(t, e.f.SuperAdmin, http.MethodPut, path, map[string]interface{}{
		"plan_id": e.f.Plans[entity.PlanPremium].ID, "start_date": "2026-01-01", "end_date": "2026-12-31",
	}, &sub))
	assert.True(t, sub.IsActive)

	require.Equal(t, http.StatusOK, e.do(t, e.f.SuperAdmin, http.MethodPost, path+"/cancel", nil, &sub))
	assert.Equal(t, entity.SubscriptionCancelled, sub.Status)
	assert.False(t, sub.IsActive)
}

func TestAPI_LimiteDeSucursalesRetorna403(t *testing.T) {
	e := newAPI(t)
	admin := &entity.User{ID: "admin-a", CompanyID: e.f.CompanyA.ID, Email: "admin@uno.cl", Role: entity.RoleAdminCliente, Status: entity.UserStatusActive}
	require.NoError(t, e.f.Store.Users().Create(context.Background(), admin))

	// Sin suscripción el límite es 0.
	var body errorBody
	status := e.do(t, admin, http.MethodPost, "/api/branches", map[string]interface{}{"name": "Norte"}, &body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "límite de sucursales del plan alcanzado", body.Message)

	e.f.Subscribe(t, e.f.CompanyA.ID, entity.PlanPremium, entity.SubscriptionActive)
	assert.Equal(t, http.StatusCreated, e.do(t, admin, http.MethodPost, "/api/branches", map[string]interface{}{"name": "Norte"}, nil))
	assert.Equal(t, http.StatusConflict, e.do(t, admin, http.MethodPost, "/api/branches", map[string]interface{}{"name": "Norte"}, nil))
}

func TestAPI_Health(t *testing.T) {
	e := newAPI(t)
	var out map[string]interface{}
	require.Equal(t, http.StatusOK, e.do(t, nil, http.MethodGet, "/health", nil, &out))
	assert.Equal(t, "ok", out["status"])
}
