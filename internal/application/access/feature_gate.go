package access

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	domainaccess "github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

// FeatureGate resuelve si el plan vigente de la empresa del usuario habilita una funcionalidad.
// Nunca devuelve error: cualquier eslabón faltante (o una falla de infraestructura) es denegación.
type FeatureGate struct {
	companyRepo      repository.CompanyRepository
	subscriptionRepo repository.SubscriptionRepository
	planRepo         repository.PlanRepository
	log              zerolog.Logger
	today            func() time.Time
}

// NewFeatureGate construye el resolvedor.
func NewFeatureGate(
	companyRepo repository.CompanyRepository,
	subscriptionRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	log zerolog.Logger,
) *FeatureGate {
	return &FeatureGate{
		companyRepo:      companyRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		log:              log,
		today:            time.Now,
	}
}

// WithClock reemplaza el reloj usado para la vigencia de la suscripción.
func (g *FeatureGate) WithClock(today func() time.Time) *FeatureGate {
	g.today = today
	return g
}

// Allows: usuario ausente o no autenticado → false; super_admin → true; luego empresa,
// suscripción activa y plan; finalmente asignación explícita o matriz por código de plan.
func (g *FeatureGate) Allows(ctx context.Context, user *entity.User, featureCode string) bool {
	if !user.IsAuthenticated() {
		return false
	}
	if user.IsSuperAdmin() {
		return true
	}
	strategy, ok := g.resolve(ctx, user.CompanyID)
	if !ok {
		return false
	}
	return strategy.Allows(featureCode)
}

// Features devuelve los códigos conocidos que el usuario tiene habilitados.
func (g *FeatureGate) Features(ctx context.Context, user *entity.User) []string {
	codes := []string{
		entity.FeatureInventory,
		entity.FeatureSales,
		entity.FeatureOrders,
		entity.FeaturePOS,
		entity.FeatureReports,
		entity.FeatureUserManagement,
		entity.FeatureBranchesUnlimited,
	}
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if g.Allows(ctx, user, c) {
			out = append(out, c)
		}
	}
	return out
}

func (g *FeatureGate) resolve(ctx context.Context, companyID string) (domainaccess.Strategy, bool) {
	if companyID == "" {
		return nil, false
	}
	log := g.log.With().Str("company_id", companyID).Logger()

	company, err := g.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		log.Error().Err(err).Msg("feature gate: obtener empresa")
		return nil, false
	}
	if company == nil {
		return nil, false
	}

	sub, err := g.subscriptionRepo.GetByCompany(ctx, companyID)
	if err != nil {
		log.Error().Err(err).Msg("feature gate: obtener suscripción")
		return nil, false
	}
	if sub == nil || !sub.IsActive(g.today()) || sub.PlanID == nil {
		return nil, false
	}

	plan, err := g.planRepo.GetByID(ctx, *sub.PlanID)
	if err != nil {
		log.Error().Err(err).Msg("feature gate: obtener plan")
		return nil, false
	}
	if plan == nil {
		return nil, false
	}

	assigned, err := g.planRepo.FeatureCodes(ctx, plan.ID)
	if err != nil {
		log.Error().Err(err).Str("plan", plan.Code).Msg("feature gate: obtener funcionalidades del plan")
		return nil, false
	}
	return domainaccess.Resolve(plan.Code, assigned), true
}
