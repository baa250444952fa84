package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// NoticeReportsDisabled se muestra en lugar del reporte cuando el plan no incluye reportes.
const NoticeReportsDisabled = "Tu plan actual no incluye reportes. Actualiza tu suscripción para ver la lista de reposición."

// ReplenishmentItem es una fila de la lista de reposición.
type ReplenishmentItem struct {
	BranchID      string
	ProductID     string
	SKU           string
	ProductName   string
	Stock         int64
	ReorderPoint  int64
	SuggestedQty  int64
	UnitCost      decimal.Decimal
	EstimatedCost decimal.Decimal
}

// ReplenishmentReport es la vista de reposición. Si ReportsEnabled es false, Items está
// vacío y Notice explica por qué: nunca es un error.
type ReplenishmentReport struct {
	ReportsEnabled bool
	Notice         string
	Items          []ReplenishmentItem
}

// ReplenishmentUseCase genera la lista de reposición de una empresa o sucursal.
type ReplenishmentUseCase struct {
	gate          FeatureChecker
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	gate FeatureChecker,
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		gate:          gate,
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

// Generate devuelve las filas con stock <= punto de reorden y la cantidad sugerida
// (2 * punto de reorden - stock). branchID vacío considera todas las sucursales.
func (uc *ReplenishmentUseCase) Generate(ctx context.Context, user *entity.User, branchID string) (*ReplenishmentReport, error) {
	if !uc.gate.Allows(ctx, user, entity.FeatureReports) {
		return &ReplenishmentReport{
			ReportsEnabled: false,
			Notice:         NoticeReportsDisabled,
			Items:          []ReplenishmentItem{},
		}, nil
	}

	rows, err := uc.inventoryRepo.ListBelowReorderPoint(ctx, user.CompanyID, branchID)
	if err != nil {
		return nil, err
	}

	items := make([]ReplenishmentItem, 0, len(rows))
	for _, row := range rows {
		product, err := uc.productRepo.GetByID(ctx, row.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}
		suggested := 2*row.ReorderPoint - row.Stock
		if suggested < 0 {
			suggested = 0
		}
		items = append(items, ReplenishmentItem{
			BranchID:      row.BranchID,
			ProductID:     row.ProductID,
			SKU:           product.SKU,
			ProductName:   product.Name,
			Stock:         row.Stock,
			ReorderPoint:  row.ReorderPoint,
			SuggestedQty:  suggested,
			UnitCost:      product.Cost,
			EstimatedCost: product.Cost.Mul(decimal.NewFromInt(suggested)),
		})
	}

	// Mayor déficit primero; empate por SKU.
	sort.SliceStable(items, func(i, j int) bool {
		di := items[i].ReorderPoint - items[i].Stock
		dj := items[j].ReorderPoint - items[j].Stock
		if di != dj {
			return di > dj
		}
		return items[i].SKU < items[j].SKU
	})

	return &ReplenishmentReport{ReportsEnabled: true, Items: items}, nil
}
