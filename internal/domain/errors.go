package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrCheckoutInProgress = errors.New("ya hay un checkout en curso para este usuario")

	// Taxonomía del motor de ventas.
	ErrTenantMismatch        = errors.New("el recurso pertenece a otra empresa")
	ErrInventoryNotFound     = errors.New("inventario no encontrado")
	ErrTemporalInconsistency = errors.New("fecha en el futuro")
)

// ValidationError es el error estructurado que el motor devuelve al caller.
// Message se muestra tal cual al operador; Kind identifica la categoría.
type ValidationError struct {
	Kind    error
	Message string
}

// NewValidationError construye un ValidationError de la categoría indicada.
func NewValidationError(kind error, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock) y similares.
func (e *ValidationError) Unwrap() error { return e.Kind }

// Mensajes visibles del motor de ventas.
const (
	MsgInvalidBranch      = "sucursal inválida"
	MsgForeignProduct     = "producto no pertenece a la empresa del usuario"
	MsgInventoryNotFound  = "inventario no encontrado para el producto/sucursal"
	MsgInsufficientStock  = "stock insuficiente"
	MsgSaleInFuture       = "la fecha de venta no puede estar en el futuro"
	MsgEmptySale          = "la venta debe tener al menos un ítem"
	MsgEmptyCart          = "el carrito está vacío"
	MsgInvalidQuantity    = "la cantidad debe ser mayor a cero"
	MsgMissingProduct     = "cada ítem debe indicar un producto"
	MsgInvalidUnitPrice   = "el precio unitario no puede ser negativo"
	MsgInvalidPayment     = "medio de pago inválido"
	MsgBranchLimitReached = "límite de sucursales del plan alcanzado"
)

// Mensajes de administración y directorio.
const (
	MsgInvalidRUT       = "RUT inválido"
	MsgInvalidDateRange = "fecha fin debe ser posterior a inicio"
	MsgInvalidDate      = "fecha inválida, use AAAA-MM-DD"
	MsgPlanInUse        = "el plan tiene suscripciones asociadas"
	MsgNegativeAmount   = "precio y costo no pueden ser negativos"
	MsgUnknownFeature   = "funcionalidad desconocida"
)
