package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/testutil"
)

type recordingPublisher struct {
	mu    sync.Mutex
	sales []*entity.Sale
}

func (p *recordingPublisher) PublishSaleCommitted(_ context.Context, sale *entity.Sale) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sales = append(p.sales, sale)
}

func saleInput(f *testutil.Fixture, lines ...sales.SaleLine) sales.CreateSaleInput {
	return sales.CreateSaleInput{
		CompanyID:     f.CompanyA.ID,
		SellerID:      f.SellerA.ID,
		BranchID:      f.BranchA.ID,
		PaymentMethod: entity.PaymentCash,
		Items:         lines,
	}
}

func line(p *entity.Product, qty int64, price int64) sales.SaleLine {
	return sales.SaleLine{ProductID: p.ID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func assertNoSales(t *testing.T, f *testutil.Fixture) {
	t.Helper()
	list, err := f.Store.Sales().ListByCompany(context.Background(), f.CompanyA.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ─── Camino feliz ──────────────────────────────────────────────────────────────

func TestCreateSale_VentaDeTresUnidades(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	pub := &recordingPublisher{}
	ctx := context.Background()

	sale, err := f.Engine(pub).CreateSale(ctx, saleInput(f, line(f.ProductA, 3, 1000)))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(3000).Equal(sale.Total))
	assert.Equal(t, int64(7), f.StockOf(t, f.BranchA, f.ProductA))
	assert.Equal(t, f.Now, sale.CreatedAt)

	movs, err := f.Ledger().ListMovements(ctx, testutil.Key(f.BranchA, f.ProductA))
	require.NoError(t, err)
	var saleMovs []*entity.InventoryMovement
	for _, m := range movs {
		if m.Type == entity.MovementTypeSale {
			saleMovs = append(saleMovs, m)
		}
	}
	require.Len(t, saleMovs, 1)
	assert.Equal(t, int64(-3), saleMovs[0].QuantityDelta)
	assert.Equal(t, sale.ID, saleMovs[0].Reference)
	assert.Equal(t, "Venta", saleMovs[0].Reason)

	stored, err := f.Engine(nil).GetSale(ctx, f.CompanyA.ID, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 1, stored.Items[0].Line)

	require.Len(t, pub.sales, 1)
	assert.Equal(t, sale.ID, pub.sales[0].ID)
}

func TestCreateSale_ItemsConservanOrdenDeLinea(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	f.OpenStock(t, f.BranchA, f.ProductA2, 10, 0)

	sale, err := f.Engine(nil).CreateSale(context.Background(), saleInput(f,
		line(f.ProductA2, 1, 2500),
		line(f.ProductA, 2, 1000),
		line(f.ProductA2, 1, 2400),
	))
	require.NoError(t, err)

	stored, err := f.Engine(nil).GetSale(context.Background(), f.CompanyA.ID, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	assert.Equal(t, f.ProductA2.ID, stored.Items[0].ProductID)
	assert.Equal(t, f.ProductA.ID, stored.Items[1].ProductID)
	assert.True(t, decimal.NewFromInt(2400).Equal(stored.Items[2].UnitPrice))
	assert.True(t, decimal.NewFromInt(6900).Equal(stored.Total))
	assert.Equal(t, int64(8), f.StockOf(t, f.BranchA, f.ProductA2), "mismo producto en dos líneas")
}

func TestCreateSale_PreciosConFraccionDeCentavoSeRedondeanPorLinea(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	in := saleInput(f, sales.SaleLine{ProductID: f.ProductA.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("0.005")})

	sale, err := f.Engine(nil).CreateSale(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, "0.01", sale.Items[0].UnitPrice.StringFixed(2))
	sum := decimal.Zero
	for _, it := range sale.Items {
		sum = sum.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	assert.True(t, sum.Equal(sale.Total), "total %s, suma de líneas %s", sale.Total, sum)
	assert.Equal(t, "0.03", sale.Total.StringFixed(2))
	assert.True(t, decimal.RequireFromString("0.005").Equal(in.Items[0].UnitPrice), "la entrada no se modifica")
}

// ─── Pertenencia ───────────────────────────────────────────────────────────────

func TestCreateSale_SucursalAjena(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	in := saleInput(f, line(f.ProductB, 1, 900)) // producto ajeno también: gana la sucursal
	in.BranchID = f.BranchB.ID

	_, err := f.Engine(nil).CreateSale(context.Background(), in)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	assert.Equal(t, domain.MsgInvalidBranch, verr.Message)
	assertNoSales(t, f)
}

func TestCreateSale_ProductoAjenoNoTocaStock(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)

	_, err := f.Engine(nil).CreateSale(context.Background(), saleInput(f,
		line(f.ProductA, 1, 1000),
		line(f.ProductB, 1, 900),
	))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.MsgForeignProduct, verr.Message)
	assert.Equal(t, int64(10), f.StockOf(t, f.BranchA, f.ProductA))
	assertNoSales(t, f)
}

// ─── Atomicidad ────────────────────────────────────────────────────────────────

func TestCreateSale_FallaEnItemKDescartaTodo(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	f.OpenStock(t, f.BranchA, f.ProductA2, 1, 0)

	_, err := f.Engine(nil).CreateSale(ctx, saleInput(f,
		line(f.ProductA, 4, 1000),
		line(f.ProductA2, 2, 2500),
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.StockOf(t, f.BranchA, f.ProductA))
	assert.Equal(t, int64(1), f.StockOf(t, f.BranchA, f.ProductA2))
	movs, err := f.Ledger().ListMovements(ctx, testutil.Key(f.BranchA, f.ProductA))
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo la apertura")
	assertNoSales(t, f)
}

func TestCreateSale_SinInventarioEsError(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Engine(nil).CreateSale(context.Background(), saleInput(f, line(f.ProductA, 1, 1000)))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.MsgInventoryNotFound, verr.Message)
	assertNoSales(t, f)
}

func TestCreateSale_FechaFuturaRevierteTodo(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	in := saleInput(f, line(f.ProductA, 2, 1000))
	future := f.Now.Add(time.Hour)
	in.SoldAt = &future

	_, err := f.Engine(nil).CreateSale(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrTemporalInconsistency)
	assert.Equal(t, int64(10), f.StockOf(t, f.BranchA, f.ProductA))
	assertNoSales(t, f)
}

func TestCreateSaleTx_PasoExtraFallidoRevierte(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	boom := errors.New("boom")

	_, err := f.Engine(nil).CreateSaleTx(context.Background(), saleInput(f, line(f.ProductA, 2, 1000)),
		func(context.Context, repository.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(10), f.StockOf(t, f.BranchA, f.ProductA))
	assertNoSales(t, f)
}

func TestCreateSale_ValidacionesDeEntrada(t *testing.T) {
	f := testutil.NewFixture(t)
	engine := f.Engine(nil)
	ctx := context.Background()

	badPayment := saleInput(f, line(f.ProductA, 1, 1000))
	badPayment.PaymentMethod = "cheque"
	noProduct := saleInput(f, sales.SaleLine{Quantity: 1, UnitPrice: decimal.NewFromInt(1)})

	cases := map[string]sales.CreateSaleInput{
		"sin ítems":              saleInput(f),
		"cantidad cero":          saleInput(f, line(f.ProductA, 0, 1000)),
		"precio negativo":        saleInput(f, line(f.ProductA, 1, -1)),
		"medio de pago inválido": badPayment,
		"línea sin producto":     noProduct,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := engine.CreateSale(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ─── Concurrencia ──────────────────────────────────────────────────────────────

func TestCreateSale_DosVentasConcurrentesSobreStockJusto(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 5, 0)
	engine := f.Engine(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = engine.CreateSale(context.Background(), saleInput(f, line(f.ProductA, 5, 1000)))
		}(i)
	}
	close(start)
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(0), f.StockOf(t, f.BranchA, f.ProductA))
}

func TestCreateSale_NuncaVendeMasQueElStockInicial(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 20, 0)
	f.OpenStock(t, f.BranchA, f.ProductA2, 20, 0)
	engine := f.Engine(nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var soldA int64
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// la mitad de las ventas lleva una segunda línea
			lines := []sales.SaleLine{line(f.ProductA, 1, 1000), line(f.ProductA2, 1, 2500)}
			if i%2 == 1 {
				lines = []sales.SaleLine{line(f.ProductA, 1, 1000)}
			}
			if _, err := engine.CreateSale(context.Background(), saleInput(f, lines...)); err == nil {
				mu.Lock()
				soldA++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(20), soldA)
	assert.Equal(t, int64(0), f.StockOf(t, f.BranchA, f.ProductA))

	rec, err := f.Ledger().Reconcile(context.Background(), testutil.Key(f.BranchA, f.ProductA))
	require.NoError(t, err)
	assert.True(t, rec.Balanced)
}

// ─── Lectura ───────────────────────────────────────────────────────────────────

func TestGetSale_VentaAjenaEsNotFound(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 10, 0)
	sale, err := f.Engine(nil).CreateSale(context.Background(), saleInput(f, line(f.ProductA, 1, 1000)))
	require.NoError(t, err)

	_, err = f.Engine(nil).GetSale(context.Background(), f.CompanyB.ID, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_PaginaPorDefectoYTope(t *testing.T) {
	f := testutil.NewFixture(t)
	f.OpenStock(t, f.BranchA, f.ProductA, 30, 0)
	engine := f.Engine(nil)
	ctx := context.Background()
	for i := 0; i < dto.DefaultPageLimit+5; i++ {
		_, err := engine.CreateSale(ctx, saleInput(f, line(f.ProductA, 1, 1000)))
		require.NoError(t, err)
	}

	list, err := engine.ListSales(ctx, f.CompanyA.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, dto.DefaultPageLimit)

	list, err = engine.ListSales(ctx, f.CompanyA.ID, 1000, -3)
	require.NoError(t, err)
	assert.Len(t, list, dto.DefaultPageLimit+5)

	list, err = engine.ListSales(ctx, f.CompanyB.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}
