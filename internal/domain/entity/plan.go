package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de funcionalidad conocidos (PlanFeature.Code).
const (
	FeatureInventory         = "inventory"
	FeatureSales             = "sales"
	FeatureOrders            = "orders"
	FeaturePOS               = "pos"
	FeatureReports           = "reports"
	FeatureUserManagement    = "user_management"
	FeatureBranchesUnlimited = "branches_unlimited"
)

// Códigos de los planes base.
const (
	PlanBasico   = "BASICO"
	PlanEstandar = "ESTANDAR"
	PlanPremium  = "PREMIUM"
)

// PlanFeature es una capacidad habilitable por plan; Code es único. Sin jerarquía.
type PlanFeature struct {
	ID          string
	Code        string
	Label       string
	Description string
}

// Plan agrupa funcionalidades y límites. Es dato de referencia: solo lo modifica super_admin.
type Plan struct {
	ID           string
	Code         string
	Name         string
	Description  string
	MonthlyPrice decimal.Decimal
	BranchLimit  *int // nil = ilimitado
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
