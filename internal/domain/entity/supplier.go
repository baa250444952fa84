package entity

import "time"

// Supplier representa un proveedor de la empresa.
type Supplier struct {
	ID          string
	CompanyID   string
	Name        string
	RUT         string
	ContactName string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TenantID implementa tenant.Owned.
func (s *Supplier) TenantID() string { return s.CompanyID }
