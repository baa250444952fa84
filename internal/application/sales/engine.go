package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/domain/tenant"
	"github.com/jhoicas/retail-api/internal/observability/metrics"
)

var tracer = otel.Tracer("retail-api/sales")

// SaleLine es una línea solicitada: producto, cantidad y precio unitario.
type SaleLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSaleInput entrada del motor de ventas.
// SoldAt permite registrar ventas tomadas offline; vacío = reloj del servidor.
type CreateSaleInput struct {
	CompanyID     string
	SellerID      string
	BranchID      string
	PaymentMethod string
	Items         []SaleLine
	SoldAt        *time.Time
}

// Engine confirma ventas de forma atómica: descuenta stock por línea (con bloqueo de fila),
// registra movimientos, persiste cabecera e ítems y valida la fecha, todo en una sola tx.
type Engine struct {
	txRunner    inventory.TxRunner
	ledger      StockDecrementer
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	publisher   SalePublisher
	log         zerolog.Logger
	now         func() time.Time
}

// NewEngine construye el motor. publisher puede ser nil.
func NewEngine(
	txRunner inventory.TxRunner,
	ledger StockDecrementer,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	publisher SalePublisher,
	log zerolog.Logger,
) *Engine {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &Engine{
		txRunner:    txRunner,
		ledger:      ledger,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CreateSale confirma la venta o devuelve un *domain.ValidationError con el mensaje para el operador.
func (e *Engine) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	return e.CreateSaleTx(ctx, in, nil)
}

// CreateSaleTx es CreateSale con un paso extra dentro de la misma transacción
// (el checkout lo usa para vaciar el carrito). Si extra falla, la venta se descarta.
func (e *Engine) CreateSaleTx(ctx context.Context, in CreateSaleInput, extra func(ctx context.Context, tx repository.Tx) error) (*entity.Sale, error) {
	ctx, span := tracer.Start(ctx, "sales.CreateSale")
	defer span.End()
	span.SetAttributes(
		attribute.String("company_id", in.CompanyID),
		attribute.String("branch_id", in.BranchID),
		attribute.Int("items", len(in.Items)),
	)

	sale, err := e.createSale(ctx, in, extra)
	if err != nil {
		reason := rejectReason(err)
		metrics.ObserveSaleRejected(reason)
		span.SetAttributes(attribute.String("rejected", reason))
		if reason == "internal" {
			span.RecordError(err)
			e.log.Error().Err(err).
				Str("company_id", in.CompanyID).
				Str("branch_id", in.BranchID).
				Msg("venta no confirmada")
		}
		return nil, err
	}
	return sale, nil
}

func (e *Engine) createSale(ctx context.Context, in CreateSaleInput, extra func(ctx context.Context, tx repository.Tx) error) (*entity.Sale, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	in.Items = roundPrices(in.Items)

	// Validación de pertenencia (fuera de la tx, solo lectura): sucursal primero,
	// luego productos en orden de línea; gana la primera violación.
	scope := tenant.NewScope(in.CompanyID)
	branch, err := e.branchRepo.GetByID(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgInvalidBranch)
	}
	if err := scope.Require(branch, domain.MsgInvalidBranch); err != nil {
		return nil, err
	}
	for _, line := range in.Items {
		product, err := e.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgForeignProduct)
		}
		if err := scope.Require(product, domain.MsgForeignProduct); err != nil {
			return nil, err
		}
	}

	start := e.now()
	createdAt := start
	if in.SoldAt != nil {
		createdAt = *in.SoldAt
	}
	saleID := uuid.New().String() // referencia de los movimientos
	var sale *entity.Sale

	err = e.txRunner.Run(ctx, func(tx repository.Tx) error {
		// Bloqueo previo en orden de clave: dos ventas con los mismos productos en
		// distinto orden no se esperan mutuamente.
		if err := lockInOrder(ctx, tx, in); err != nil {
			return err
		}

		// 1) Descontar stock por línea; cualquier error hace rollback de todo.
		total := decimal.Zero
		for _, line := range in.Items {
			_, err := e.ledger.Decrement(ctx, tx, inventory.DecrementInput{
				Key: entity.InventoryKey{
					CompanyID: in.CompanyID,
					BranchID:  in.BranchID,
					ProductID: line.ProductID,
				},
				Quantity:  line.Quantity,
				Reason:    inventory.ReasonSale,
				Reference: saleID,
				UserID:    in.SellerID,
				At:        start,
			})
			if err != nil {
				return err
			}
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}

		// 2) Cabecera con el total calculado, luego ítems en orden de línea.
		sale = &entity.Sale{
			ID:            saleID,
			CompanyID:     in.CompanyID,
			BranchID:      in.BranchID,
			SellerID:      in.SellerID,
			PaymentMethod: in.PaymentMethod,
			Total:         total.Round(2),
			CreatedAt:     createdAt,
			Items:         make([]entity.SaleItem, 0, len(in.Items)),
		}
		if err := tx.Sales.Create(ctx, sale); err != nil {
			return err
		}
		for i, line := range in.Items {
			item := entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				Line:      i + 1,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := tx.Sales.CreateItem(ctx, &item); err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)
		}

		if extra != nil {
			if err := extra(ctx, tx); err != nil {
				return err
			}
		}

		// 3) La fecha de la venta no puede quedar en el futuro respecto del commit.
		if sale.CreatedAt.After(e.now()) {
			return domain.NewValidationError(domain.ErrTemporalInconsistency, domain.MsgSaleInFuture)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveSaleCommitted(e.now().Sub(start))
	e.publisher.PublishSaleCommitted(ctx, sale)
	return sale, nil
}

// GetSale devuelve la venta con sus ítems. Una venta de otra empresa se informa como inexistente.
func (e *Engine) GetSale(ctx context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := e.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || !tenant.NewScope(companyID).Contains(sale) {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales devuelve las ventas de la empresa, más recientes primero.
// La página se normaliza igual que en HTTP (dto.DefaultPageLimit, tope dto.MaxPageLimit).
func (e *Engine) ListSales(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	page := dto.PageRequest{Limit: limit, Offset: offset}
	page.DefaultPage()
	return e.saleRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
}

func lockInOrder(ctx context.Context, tx repository.Tx, in CreateSaleInput) error {
	ids := make([]string, 0, len(in.Items))
	seen := make(map[string]bool, len(in.Items))
	for _, line := range in.Items {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	if len(ids) < 2 {
		return nil
	}
	sort.Strings(ids)
	for _, id := range ids {
		key := entity.InventoryKey{CompanyID: in.CompanyID, BranchID: in.BranchID, ProductID: id}
		if _, err := tx.Inventory.GetForUpdate(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func validateInput(in CreateSaleInput) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError(domain.ErrInvalidInput, domain.MsgEmptySale)
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidPayment)
	}
	for _, line := range in.Items {
		if line.ProductID == "" {
			return domain.NewValidationError(domain.ErrInvalidInput, domain.MsgMissingProduct)
		}
		if line.Quantity <= 0 {
			return domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidQuantity)
		}
		if line.UnitPrice.IsNegative() {
			return domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidUnitPrice)
		}
	}
	return nil
}

// roundPrices fija cada precio unitario a 2 decimales antes de acumular el total,
// así cabecera e ítems suman lo mismo una vez persistidos en NUMERIC(14,2).
func roundPrices(lines []SaleLine) []SaleLine {
	out := make([]SaleLine, len(lines))
	for i, l := range lines {
		l.UnitPrice = l.UnitPrice.Round(2)
		out[i] = l
	}
	return out
}

// rejectReason traduce el error a la etiqueta de la métrica de rechazos.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTenantMismatch):
		return "tenant_mismatch"
	case errors.Is(err, domain.ErrInventoryNotFound):
		return "inventory_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrTemporalInconsistency):
		return "temporal_inconsistency"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return "internal"
}
