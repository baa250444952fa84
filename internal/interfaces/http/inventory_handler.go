package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// InventoryHandler maneja stock, movimientos y conciliación (protegido, funcionalidad inventory).
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// List godoc
// @Summary      Stock por sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Success      200        {array}  dto.InventoryResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	rows, err := h.ledger.ListStock(c.UserContext(), user.CompanyID, c.Query("branch_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, inv := range rows {
		out = append(out, toInventoryResponse(inv))
	}
	return c.JSON(out)
}

// Open godoc
// @Summary      Abrir stock de un producto en una sucursal
// @Description  Un stock inicial mayor a cero queda registrado como ajuste "Stock inicial".
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenInventoryRequest  true  "Sucursal, producto, stock inicial y punto de reorden"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Open(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	var in dto.OpenInventoryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	inv, err := h.ledger.OpenInventory(c.UserContext(), inventory.OpenInventoryInput{
		CompanyID:    user.CompanyID,
		UserID:       user.ID,
		BranchID:     in.BranchID,
		ProductID:    in.ProductID,
		InitialStock: in.InitialStock,
		ReorderPoint: in.ReorderPoint,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInventoryResponse(inv))
}

// RegisterMovement godoc
// @Summary      Registrar compra o ajuste de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "branch_id, product_id, type (purchase|adjustment), quantity, unit_cost"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	mov, err := h.ledger.RecordMovement(c.UserContext(), inventory.MovementInput{
		CompanyID: user.CompanyID,
		UserID:    user.ID,
		BranchID:  in.BranchID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Movements godoc
// @Summary      Kardex de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  true  "Sucursal"
// @Param        product_id  query  string  true  "Producto"
// @Success      200         {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	key, ok := keyFromQuery(c, user)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y product_id son requeridos"})
	}
	list, err := h.ledger.ListMovements(c.UserContext(), key)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock contra movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  true  "Sucursal"
// @Param        product_id  query  string  true  "Producto"
// @Success      200         {object}  dto.ReconciliationResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	key, ok := keyFromQuery(c, user)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "branch_id y product_id son requeridos"})
	}
	rec, err := h.ledger.Reconcile(c.UserContext(), key)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		BranchID:    rec.Key.BranchID,
		ProductID:   rec.Key.ProductID,
		Stock:       rec.Stock,
		MovementSum: rec.MovementSum,
		Balanced:    rec.Balanced,
	})
}

func keyFromQuery(c *fiber.Ctx, user *entity.User) (entity.InventoryKey, bool) {
	key := entity.InventoryKey{
		CompanyID: user.CompanyID,
		BranchID:  c.Query("branch_id"),
		ProductID: c.Query("product_id"),
	}
	return key, key.BranchID != "" && key.ProductID != ""
}

func toInventoryResponse(inv *entity.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		ID:           inv.ID,
		BranchID:     inv.BranchID,
		ProductID:    inv.ProductID,
		Stock:        inv.Stock,
		ReorderPoint: inv.ReorderPoint,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		BranchID:      m.BranchID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		QuantityDelta: m.QuantityDelta,
		Reason:        m.Reason,
		Reference:     m.Reference,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
