package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin    = "super_admin"
	RoleAdminCliente  = "admin_cliente"
	RoleGerente       = "gerente"
	RoleVendedor      = "vendedor"
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

// User representa un usuario del sistema. CompanyID es vacío solo para super_admin.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAuthenticated informa si el usuario fue resuelto desde una sesión válida y está activo.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != "" && u.Status == UserStatusActive
}

// IsSuperAdmin informa si el usuario omite tenancy y plan.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}
