package entity

import "time"

// Branch representa una sucursal; (CompanyID, Name) es único.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantID implementa tenant.Owned.
func (b *Branch) TenantID() string { return b.CompanyID }
