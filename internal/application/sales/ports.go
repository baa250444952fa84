package sales

import (
	"context"

	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// StockDecrementer descuenta stock dentro de la transacción del caller (Inventory Ledger).
type StockDecrementer interface {
	Decrement(ctx context.Context, tx repository.Tx, in inventory.DecrementInput) (*entity.InventoryMovement, error)
}

// SalePublisher notifica ventas confirmadas. Es best effort: nunca afecta a la venta.
type SalePublisher interface {
	PublishSaleCommitted(ctx context.Context, sale *entity.Sale)
}

// ReceiptLine es una línea del comprobante con el nombre del producto resuelto.
type ReceiptLine struct {
	entity.SaleItem
	SKU         string
	ProductName string
}

// ReceiptGenerator genera la representación gráfica (PDF) del comprobante de venta.
type ReceiptGenerator interface {
	GenerateReceiptPDF(
		ctx context.Context,
		sale *entity.Sale,
		company *entity.Company,
		branch *entity.Branch,
		lines []ReceiptLine,
	) ([]byte, error)
}

type noopPublisher struct{}

func (noopPublisher) PublishSaleCommitted(context.Context, *entity.Sale) {}
