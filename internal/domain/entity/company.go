package entity

import "time"

// Company es la raíz del tenant: toda entidad de negocio cuelga de una empresa.
// RUT es la identidad de negocio y no cambia después de crear la empresa.
type Company struct {
	ID        string
	Name      string
	RUT       string // RUT chileno con dígito verificador (ej. 12345678-5)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenantID implementa tenant.Owned: la empresa es dueña de sí misma.
func (c *Company) TenantID() string { return c.ID }
