// Package tenant concentra la verificación de pertenencia a empresa que el motor
// de ventas aplica antes de tocar cualquier entidad referenciada.
package tenant

import "github.com/jhoicas/retail-api/internal/domain"

// Owned lo implementa toda entidad que cuelga de una empresa.
type Owned interface {
	TenantID() string
}

// Scope es el alcance de la empresa que actúa.
type Scope struct {
	companyID string
}

// NewScope construye el alcance para la empresa indicada.
func NewScope(companyID string) Scope {
	return Scope{companyID: companyID}
}

// CompanyID devuelve la empresa del alcance.
func (s Scope) CompanyID() string { return s.companyID }

// Contains informa si la entidad pertenece a la empresa del alcance.
// Una entidad nil o un alcance vacío nunca pertenecen.
func (s Scope) Contains(e Owned) bool {
	if s.companyID == "" || e == nil {
		return false
	}
	return e.TenantID() == s.companyID
}

// Require devuelve un ValidationError(ErrTenantMismatch, message) si la entidad no pertenece.
func (s Scope) Require(e Owned, message string) error {
	if !s.Contains(e) {
		return domain.NewValidationError(domain.ErrTenantMismatch, message)
	}
	return nil
}
