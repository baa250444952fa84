package entity

import "time"

// Estados de suscripción.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription vincula una empresa (1:1) con un plan durante una ventana de fechas.
type Subscription struct {
	ID         string
	CompanyID  string
	PlanID     *string // nil = sin plan
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive es verdadero si status = active y StartDate <= today <= EndDate (comparación por día).
func (s *Subscription) IsActive(today time.Time) bool {
	if s == nil || s.Status != SubscriptionActive {
		return false
	}
	d := dateOnly(today)
	return !d.Before(dateOnly(s.StartDate)) && !d.After(dateOnly(s.EndDate))
}

// Cancel marca la suscripción como cancelada. Es idempotente: una segunda llamada
// no vuelve a sellar CanceledAt. Devuelve true si hubo cambio.
func (s *Subscription) Cancel(now time.Time) bool {
	if s.Status == SubscriptionCancelled {
		return false
	}
	s.Status = SubscriptionCancelled
	s.CanceledAt = &now
	s.UpdatedAt = now
	return true
}

// BranchLimit devuelve el límite efectivo de sucursales: 0 si la suscripción no está activa
// o no tiene plan; nil si el plan es ilimitado.
func (s *Subscription) BranchLimit(plan *Plan, today time.Time) *int {
	zero := 0
	if !s.IsActive(today) || plan == nil {
		return &zero
	}
	return plan.BranchLimit
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
