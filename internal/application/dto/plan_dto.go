package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePlanRequest entrada para crear un plan. BranchLimit nil = ilimitado.
type CreatePlanRequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=100"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	BranchLimit  *int            `json:"branch_limit" validate:"omitempty,min=0"`
}

// SetPlanFeaturesRequest reemplaza la asignación explícita de funcionalidades.
// Una lista vacía devuelve el plan a la matriz por defecto.
type SetPlanFeaturesRequest struct {
	Features []string `json:"features" validate:"dive,required"`
}

// PlanResponse salida de un plan con su resolución de funcionalidades.
type PlanResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	BranchLimit  *int            `json:"branch_limit"`
	IsActive     bool            `json:"is_active"`
	Strategy     string          `json:"strategy"`
	Features     []string        `json:"features"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AssignSubscriptionRequest asigna (o reemplaza) la suscripción de una empresa.
// Fechas en formato YYYY-MM-DD.
type AssignSubscriptionRequest struct {
	PlanID    string `json:"plan_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=active cancelled expired"`
}

// SubscriptionResponse salida de una suscripción.
type SubscriptionResponse struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	PlanID     *string    `json:"plan_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Status     string     `json:"status"`
	IsActive   bool       `json:"is_active"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
}

// FeatureResponse resultado de consultar una funcionalidad para el usuario actual.
type FeatureResponse struct {
	Feature string `json:"feature"`
	Allowed bool   `json:"allowed"`
}

// FeatureListResponse funcionalidades habilitadas para el usuario actual.
type FeatureListResponse struct {
	Features []string `json:"features"`
}
