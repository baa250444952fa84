package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/access"
	"github.com/jhoicas/retail-api/internal/application/dto"
)

// FeatureHandler permite a las vistas consultar qué funcionalidades tiene el usuario.
type FeatureHandler struct {
	gate *access.FeatureGate
}

// NewFeatureHandler construye el handler.
func NewFeatureHandler(gate *access.FeatureGate) *FeatureHandler {
	return &FeatureHandler{gate: gate}
}

// List godoc
// @Summary      Funcionalidades habilitadas
// @Tags         features
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FeatureListResponse
// @Router       /api/features [get]
func (h *FeatureHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.FeatureListResponse{Features: h.gate.Features(c.UserContext(), GetCurrentUser(c))})
}

// Check godoc
// @Summary      Consultar una funcionalidad
// @Tags         features
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de funcionalidad"
// @Success      200   {object}  dto.FeatureResponse
// @Router       /api/features/{code} [get]
func (h *FeatureHandler) Check(c *fiber.Ctx) error {
	code := c.Params("code")
	return c.JSON(dto.FeatureResponse{Feature: code, Allowed: h.gate.Allows(c.UserContext(), GetCurrentUser(c), code)})
}
