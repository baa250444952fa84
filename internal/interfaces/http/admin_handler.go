package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/usecase"
)

// AdminHandler administra planes y suscripciones (solo super_admin).
type AdminHandler struct {
	plans         *usecase.PlanUseCase
	subscriptions *usecase.SubscriptionUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(plans *usecase.PlanUseCase, subscriptions *usecase.SubscriptionUseCase) *AdminHandler {
	return &AdminHandler{plans: plans, subscriptions: subscriptions}
}

// CreatePlan godoc
// @Summary      Crear plan
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePlanRequest  true  "Código, nombre, precio y límite de sucursales"
// @Success      201   {object}  dto.PlanResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/plans [post]
func (h *AdminHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.CreatePlanRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.plans.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPlans godoc
// @Summary      Listar planes con sus funcionalidades
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/admin/plans [get]
func (h *AdminHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.plans.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListFeatures godoc
// @Summary      Catálogo de funcionalidades
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]string
// @Router       /api/admin/features [get]
func (h *AdminHandler) ListFeatures(c *fiber.Ctx) error {
	features, err := h.plans.Features(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(features))
	for _, f := range features {
		out = append(out, fiber.Map{"code": f.Code, "label": f.Label})
	}
	return c.JSON(out)
}

// SetPlanFeatures godoc
// @Summary      Asignar funcionalidades a un plan
// @Description  Reemplaza la asignación explícita. Lista vacía = vuelve a la matriz por defecto.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del plan"
// @Param        body  body  dto.SetPlanFeaturesRequest  true  "Códigos de funcionalidad"
// @Success      200   {object}  dto.PlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/plans/{id}/features [put]
func (h *AdminHandler) SetPlanFeatures(c *fiber.Ctx) error {
	var in dto.SetPlanFeaturesRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.plans.SetFeatures(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeletePlan godoc
// @Summary      Eliminar plan
// @Tags         admin
// @Security     Bearer
// @Param        id   path  string  true  "ID del plan"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/plans/{id} [delete]
func (h *AdminHandler) DeletePlan(c *fiber.Ctx) error {
	if err := h.plans.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSubscription godoc
// @Summary      Suscripción de una empresa
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id}/subscription [get]
func (h *AdminHandler) GetSubscription(c *fiber.Ctx) error {
	out, err := h.subscriptions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AssignSubscription godoc
// @Summary      Asignar suscripción
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la empresa"
// @Param        body  body  dto.AssignSubscriptionRequest  true  "Plan y vigencia (AAAA-MM-DD)"
// @Success      200   {object}  dto.SubscriptionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id}/subscription [put]
func (h *AdminHandler) AssignSubscription(c *fiber.Ctx) error {
	var in dto.AssignSubscriptionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.subscriptions.Assign(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CancelSubscription godoc
// @Summary      Cancelar suscripción
// @Description  Idempotente: una segunda cancelación no cambia la fecha de cancelación.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/companies/{id}/subscription/cancel [post]
func (h *AdminHandler) CancelSubscription(c *fiber.Ctx) error {
	out, err := h.subscriptions.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
