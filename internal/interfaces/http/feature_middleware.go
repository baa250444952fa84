package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// featureChecker es el contrato mínimo del resolvedor de funcionalidades.
// Lo implementa *access.FeatureGate.
type featureChecker interface {
	Allows(ctx context.Context, user *entity.User, featureCode string) bool
}

// RequireFeature corta la petición con 403 FEATURE_DISABLED si el plan de la empresa
// no habilita featureCode. Debe usarse DESPUÉS de CurrentUser.
//
// El resolvedor nunca falla: una suscripción ausente, vencida o un error al consultarla
// se tratan como denegación.
func RequireFeature(featureCode string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "sesión requerida",
			})
		}
		if !checker.Allows(c.UserContext(), user, featureCode) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "la funcionalidad '" + featureCode + "' no está incluida en el plan de la empresa",
			})
		}
		return c.Next()
	}
}
