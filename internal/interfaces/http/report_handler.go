package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-api/internal/application/dto"
	"github.com/jhoicas/retail-api/internal/application/inventory"
)

// ReportHandler expone los reportes. Si el plan no incluye reportes responde 200 con la
// vista degradada, nunca 403.
type ReportHandler struct {
	replenishment *inventory.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(replenishment *inventory.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{replenishment: replenishment}
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Filtrar por sucursal"
// @Success      200        {object}  dto.ReplenishmentResponse
// @Router       /api/reports/replenishment [get]
func (h *ReportHandler) Replenishment(c *fiber.Ctx) error {
	user, err := requireTenantUser(c)
	if user == nil {
		return err
	}
	report, err := h.replenishment.Generate(c.UserContext(), user, c.Query("branch_id"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ReplenishmentResponse{
		ReportsEnabled: report.ReportsEnabled,
		Notice:         report.Notice,
		Items:          make([]dto.ReplenishmentItemResponse, 0, len(report.Items)),
	}
	for _, it := range report.Items {
		out.Items = append(out.Items, dto.ReplenishmentItemResponse{
			BranchID:      it.BranchID,
			ProductID:     it.ProductID,
			SKU:           it.SKU,
			ProductName:   it.ProductName,
			Stock:         it.Stock,
			ReorderPoint:  it.ReorderPoint,
			SuggestedQty:  it.SuggestedQty,
			UnitCost:      it.UnitCost,
			EstimatedCost: it.EstimatedCost,
		})
	}
	return c.JSON(out)
}
