package repository

import (
	"context"

	"github.com/jhoicas/retail-api/internal/domain/entity"
)

// SubscriptionRepository define el puerto de persistencia para Subscription (1:1 con Company).
type SubscriptionRepository interface {
	GetByCompany(ctx context.Context, companyID string) (*entity.Subscription, error)
	// Upsert crea o reemplaza la suscripción de la empresa.
	Upsert(ctx context.Context, sub *entity.Subscription) error
}
