package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentDebit    = "debit"
	PaymentCredit   = "credit"
	PaymentTransfer = "transfer"
)

// ValidPaymentMethod informa si el medio de pago es conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentCredit, PaymentTransfer:
		return true
	}
	return false
}

// Sale es la cabecera de una venta confirmada. Inmutable una vez confirmada.
type Sale struct {
	ID            string
	CompanyID     string
	BranchID      string
	SellerID      string
	PaymentMethod string
	Total         decimal.Decimal
	CreatedAt     time.Time
	Items         []SaleItem // en orden de línea
}

// TenantID implementa tenant.Owned.
func (s *Sale) TenantID() string { return s.CompanyID }

// SaleItem es una línea de la venta. Line conserva el orden de inserción.
type SaleItem struct {
	ID        string
	SaleID    string
	Line      int
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal = Quantity * UnitPrice en aritmética decimal.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
