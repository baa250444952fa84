package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU de la empresa; (CompanyID, SKU) es único.
// Price y Cost son montos de punto fijo con 2 decimales.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TenantID implementa tenant.Owned.
func (p *Product) TenantID() string { return p.CompanyID }
