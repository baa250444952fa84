package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
	"github.com/jhoicas/retail-api/internal/domain/tenant"
	"github.com/jhoicas/retail-api/internal/observability/metrics"
)

// SaleCreator es el motor de ventas visto desde el carrito.
type SaleCreator interface {
	CreateSaleTx(ctx context.Context, in sales.CreateSaleInput, extra func(ctx context.Context, tx repository.Tx) error) (*entity.Sale, error)
}

// CheckoutLocker evita dos checkouts simultáneos del mismo usuario.
// Acquire devuelve domain.ErrCheckoutInProgress si el candado ya está tomado.
type CheckoutLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// UseCase es el carrito: staging de líneas por usuario previo al checkout.
// Aplica la misma regla de pertenencia que el motor de ventas al agregar.
type UseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	engine      SaleCreator
	locker      CheckoutLocker
	now         func() time.Time
}

// NewUseCase construye el caso de uso del carrito.
func NewUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	engine SaleCreator,
	locker CheckoutLocker,
) *UseCase {
	return &UseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		engine:      engine,
		locker:      locker,
		now:         time.Now,
	}
}

// AddItem agrega qty del producto al carrito del usuario, sumando si la línea ya existe.
// Un producto de otra empresa se rechaza igual que en CreateSale.
func (uc *UseCase) AddItem(ctx context.Context, user *entity.User, productID string, qty int64) (*entity.CartItem, error) {
	if qty <= 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgInvalidQuantity)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgForeignProduct)
	}
	if err := tenant.NewScope(user.CompanyID).Require(product, domain.MsgForeignProduct); err != nil {
		return nil, err
	}

	now := uc.now()
	return uc.cartRepo.AddQuantity(ctx, &entity.CartItem{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ListItems devuelve el carrito del usuario en orden de agregado.
func (uc *UseCase) ListItems(ctx context.Context, user *entity.User) ([]*entity.CartItem, error) {
	return uc.cartRepo.ListByUser(ctx, user.ID)
}

// RemoveItem quita una línea propia; una línea ajena o inexistente → domain.ErrNotFound.
func (uc *UseCase) RemoveItem(ctx context.Context, user *entity.User, itemID string) error {
	return uc.cartRepo.Delete(ctx, user.ID, itemID)
}

// Checkout convierte el carrito en una venta en la sucursal indicada. Los precios salen
// del producto al momento del checkout. Las cantidades vendidas se descuentan del carrito
// en la misma tx de la venta; si la venta falla, el carrito queda intacto.
func (uc *UseCase) Checkout(ctx context.Context, user *entity.User, branchID, paymentMethod string) (*entity.Sale, error) {
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.NewValidationError(domain.ErrTenantMismatch, domain.MsgInvalidBranch)
	}
	if err := tenant.NewScope(user.CompanyID).Require(branch, domain.MsgInvalidBranch); err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, "checkout:"+user.ID)
	if err != nil {
		metrics.ObserveCheckoutLockRejected()
		return nil, err
	}
	defer release()

	items, err := uc.cartRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError(domain.ErrInvalidInput, domain.MsgEmptyCart)
	}

	lines := make([]sales.SaleLine, 0, len(items))
	consumed := make([]*entity.CartItem, 0, len(items))
	for _, item := range items {
		line := sales.SaleLine{ProductID: item.ProductID, Quantity: item.Quantity}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			line.UnitPrice = product.Price
		}
		lines = append(lines, line)
		consumed = append(consumed, item)
	}

	return uc.engine.CreateSaleTx(ctx, sales.CreateSaleInput{
		CompanyID:     user.CompanyID,
		SellerID:      user.ID,
		BranchID:      branchID,
		PaymentMethod: paymentMethod,
		Items:         lines,
	}, func(ctx context.Context, tx repository.Tx) error {
		return tx.Cart.ConsumeItems(ctx, user.ID, consumed)
	})
}
