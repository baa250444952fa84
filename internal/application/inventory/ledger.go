package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	domaininv "github.com/jhoicas/retail-api/internal/domain/inventory"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/domain/tenant"
	"github.com/jhoicas/retail-api/internal/observability/metrics"
)

var tracer = otel.Tracer("retail-api/inventory")

// Motivos por defecto de los movimientos.
const (
	ReasonSale         = "Venta"
	ReasonOpening      = "Stock inicial"
	ReasonPurchase     = "Compra"
	ReasonAdjustment   = "Ajuste"
	msgInvalidMovement = "tipo de movimiento inválido"
	msgNegativeOpening = "stock inicial y punto de reorden no pueden ser negativos"
)

// Ledger es el libro de inventario: stock por (empresa, sucursal, producto) y su
// registro append-only de movimientos. Toda mutación de stock bloquea la fila
// (SELECT ... FOR UPDATE) y escribe el movimiento en la misma transacción.
type Ledger struct {
	txRunner      TxRunner
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.InventoryMovementRepository
	productRepo   repository.ProductRepository
	branchRepo    repository.BranchRepository
	now           func() time.Time
}

// NewLedger construye el libro de inventario.
func NewLedger(
	txRunner TxRunner,
	inventoryRepo repository.InventoryRepository,
	movementRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
) *Ledger {
	return &Ledger{
		txRunner:      txRunner,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		branchRepo:    branchRepo,
		now:           time.Now,
	}
}

// DecrementInput describe una salida por venta.
type DecrementInput struct {
	Key       entity.InventoryKey
	Quantity  int64
	Reason    string // "Venta" si vacío
	Reference string // ID de la venta
	UserID    string
	At        time.Time
}

// Decrement descuenta Quantity del stock de la clave usando los repositorios de la tx del caller.
// Bloquea la fila hasta el fin de esa tx. Si no hay fila devuelve InventoryNotFound; si el
// stock no alcanza devuelve InsufficientStock sin mutar nada. El caller debe hacer rollback
// ante cualquier error.
func (l *Ledger) Decrement(ctx context.Context, tx repository.Tx, in DecrementInput) (*entity.InventoryMovement, error) {
	ctx, span := tracer.Start(ctx, "inventory.Decrement")
	defer span.End()
	span.SetAttributes(
		attribute.String("branch_id", in.Key.BranchID),
		attribute.String("product_id", in.Key.ProductID),
		attribute.Int64("quantity", in.Quantity),
	)

	if in.Quantity <= 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidQuantity)
	}

	inv, err := tx.Inventory.GetForUpdate(ctx, in.Key)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if inv == nil {
		return nil, domain.NewValidationError(domain.ErrInventoryNotFound, domain.MsgInventoryNotFound)
	}
	if inv.Stock < in.Quantity {
		return nil, domain.NewValidationError(domain.ErrInsufficientStock, domain.MsgInsufficientStock)
	}

	at := in.At
	if at.IsZero() {
		at = l.now()
	}
	inv.Stock -= in.Quantity
	inv.UpdatedAt = at
	if err := tx.Inventory.UpdateStock(ctx, inv); err != nil {
		return nil, err
	}

	reason := in.Reason
	if reason == "" {
		reason = ReasonSale
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		CompanyID:     in.Key.CompanyID,
		BranchID:      in.Key.BranchID,
		ProductID:     in.Key.ProductID,
		Type:          entity.MovementTypeSale,
		QuantityDelta: -in.Quantity,
		Reason:        reason,
		Reference:     in.Reference,
		CreatedBy:     in.UserID,
		CreatedAt:     at,
	}
	if err := tx.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// MovementInput entrada para registrar una compra (cantidad positiva, costo unitario opcional)
// o un ajuste (cantidad con signo, distinta de cero).
type MovementInput struct {
	CompanyID string
	UserID    string
	BranchID  string
	ProductID string
	Type      string
	Quantity  int64
	UnitCost  *decimal.Decimal
	Reason    string
}

// RecordMovement registra una compra o un ajuste en su propia transacción.
// Una compra con costo unitario recalcula el costo promedio ponderado del producto.
func (l *Ledger) RecordMovement(ctx context.Context, in MovementInput) (*entity.InventoryMovement, error) {
	reason := in.Reason
	switch in.Type {
	case entity.MovementTypePurchase:
		if in.Quantity <= 0 {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidQuantity)
		}
		if in.UnitCost != nil && in.UnitCost.IsNegative() {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidUnitPrice)
		}
		if reason == "" {
			reason = ReasonPurchase
		}
	case entity.MovementTypeAdjustment:
		if in.Quantity == 0 {
			return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidQuantity)
		}
		if reason == "" {
			reason = ReasonAdjustment
		}
	default:
		return nil, domain.NewValidationError(domain.ErrInvalidInput, msgInvalidMovement)
	}

	product, err := l.checkOwnership(ctx, in.CompanyID, in.BranchID, in.ProductID)
	if err != nil {
		return nil, err
	}

	key := entity.InventoryKey{CompanyID: in.CompanyID, BranchID: in.BranchID, ProductID: in.ProductID}
	now := l.now()
	var mov *entity.InventoryMovement

	err = l.txRunner.Run(ctx, func(tx repository.Tx) error {
		inv, err := tx.Inventory.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NewValidationError(domain.ErrInventoryNotFound, domain.MsgInventoryNotFound)
		}
		if inv.Stock+in.Quantity < 0 {
			return domain.NewValidationError(domain.ErrInsufficientStock, domain.MsgInsufficientStock)
		}

		if in.Type == entity.MovementTypePurchase && in.UnitCost != nil {
			newCost := domaininv.WeightedAverageCost(inv.Stock, product.Cost, in.Quantity, *in.UnitCost)
			if err := tx.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
				return err
			}
		}

		inv.Stock += in.Quantity
		inv.UpdatedAt = now
		if err := tx.Inventory.UpdateStock(ctx, inv); err != nil {
			return err
		}
		mov = &entity.InventoryMovement{
			ID:            uuid.New().String(),
			CompanyID:     in.CompanyID,
			BranchID:      in.BranchID,
			ProductID:     in.ProductID,
			Type:          in.Type,
			QuantityDelta: in.Quantity,
			Reason:        reason,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}
		return tx.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveMovement(in.Type)
	return mov, nil
}

// OpenInventoryInput entrada para abrir la fila de stock de un producto en una sucursal.
type OpenInventoryInput struct {
	CompanyID    string
	UserID       string
	BranchID     string
	ProductID    string
	InitialStock int64
	ReorderPoint int64
}

// OpenInventory crea la fila de stock. Un stock inicial > 0 queda registrado como ajuste
// "Stock inicial" para que la suma de movimientos siga cuadrando con el stock.
// Si la fila ya existe devuelve ErrDuplicate.
func (l *Ledger) OpenInventory(ctx context.Context, in OpenInventoryInput) (*entity.Inventory, error) {
	if in.InitialStock < 0 || in.ReorderPoint < 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, msgNegativeOpening)
	}
	if _, err := l.checkOwnership(ctx, in.CompanyID, in.BranchID, in.ProductID); err != nil {
		return nil, err
	}

	now := l.now()
	inv := &entity.Inventory{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		BranchID:     in.BranchID,
		ProductID:    in.ProductID,
		Stock:        in.InitialStock,
		ReorderPoint: in.ReorderPoint,
		UpdatedAt:    now,
	}
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Inventory.Create(ctx, inv); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		return tx.Movements.Create(ctx, &entity.InventoryMovement{
			ID:            uuid.New().String(),
			CompanyID:     in.CompanyID,
			BranchID:      in.BranchID,
			ProductID:     in.ProductID,
			Type:          entity.MovementTypeAdjustment,
			QuantityDelta: in.InitialStock,
			Reason:        ReasonOpening,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	if in.InitialStock > 0 {
		metrics.ObserveMovement(entity.MovementTypeAdjustment)
	}
	return inv, nil
}

// Reconciliation compara el stock vigente con la suma de movimientos de la clave.
type Reconciliation struct {
	Key         entity.InventoryKey
	Stock       int64
	MovementSum int64
	Balanced    bool
}

// Reconcile verifica el invariante stock == Σ deltas para la clave. Lee ambos lados
// con la fila bloqueada: una venta en curso termina antes o después, nunca entre lecturas.
func (l *Ledger) Reconcile(ctx context.Context, key entity.InventoryKey) (*Reconciliation, error) {
	var rec *Reconciliation
	err := l.txRunner.Run(ctx, func(tx repository.Tx) error {
		inv, err := tx.Inventory.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		sum, err := tx.Movements.SumDeltas(ctx, key)
		if err != nil {
			return err
		}
		rec = &Reconciliation{Key: key, Stock: inv.Stock, MovementSum: sum, Balanced: inv.Stock == sum}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListStock devuelve el stock de la empresa; branchID vacío = todas las sucursales.
func (l *Ledger) ListStock(ctx context.Context, companyID, branchID string) ([]*entity.Inventory, error) {
	return l.inventoryRepo.ListByCompany(ctx, companyID, branchID)
}

// ListMovements devuelve los movimientos de la clave en orden de registro.
func (l *Ledger) ListMovements(ctx context.Context, key entity.InventoryKey) ([]*entity.InventoryMovement, error) {
	return l.movementRepo.ListByKey(ctx, key)
}

// checkOwnership valida sucursal y producto contra la empresa (fuera de la tx, solo lectura).
func (l *Ledger) checkOwnership(ctx context.Context, companyID, branchID, productID string) (*entity.Product, error) {
	if branchID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	scope := tenant.NewScope(companyID)
	branch, err := l.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgInvalidBranch)
	}
	if err := scope.Require(branch, domain.MsgInvalidBranch); err != nil {
		return nil, err
	}
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgForeignProduct)
	}
	if err := scope.Require(product, domain.MsgForeignProduct); err != nil {
		return nil, err
	}
	return product, nil
}
