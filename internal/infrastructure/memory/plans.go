package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository         = (*planRepo)(nil)
	_ repository.SubscriptionRepository = (*subscriptionRepo)(nil)
)

// AddFeature registra un código en el catálogo de funcionalidades.
func (s *Store) AddFeature(f *entity.PlanFeature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *f
	s.features[f.Code] = &cp
}

type planRepo struct{ s *Store }

func (r *planRepo) Create(_ context.Context, p *entity.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.plans {
		if cur.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.plans[p.ID] = &cp
	return nil
}

func (r *planRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.plans[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *planRepo) GetByCode(_ context.Context, code string) (*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.plans {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *planRepo) List(_ context.Context) ([]*entity.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Plan, 0, len(r.s.plans))
	for _, p := range r.s.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthlyPrice.LessThan(out[j].MonthlyPrice) })
	return out, nil
}

func (r *planRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.plans, id)
	delete(r.s.assignments, id)
	return nil
}

func (r *planRepo) FeatureCodes(_ context.Context, planID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]string(nil), r.s.assignments[planID]...), nil
}

func (r *planRepo) SetFeatures(_ context.Context, planID string, codes []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.plans[planID]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range codes {
		if _, ok := r.s.features[c]; !ok {
			return domain.ErrNotFound
		}
	}
	r.s.assignments[planID] = append([]string(nil), codes...)
	return nil
}

func (r *planRepo) ListFeatures(_ context.Context) ([]*entity.PlanFeature, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PlanFeature, 0, len(r.s.features))
	for _, f := range r.s.features {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *planRepo) CountSubscriptions(_ context.Context, planID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, sub := range r.s.subscriptions {
		if sub.PlanID != nil && *sub.PlanID == planID {
			n++
		}
	}
	return n, nil
}

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) GetByCompany(_ context.Context, companyID string) (*entity.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if sub, ok := r.s.subscriptions[companyID]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, nil
}

func (r *subscriptionRepo) Upsert(_ context.Context, sub *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub.PlanID != nil {
		if _, ok := r.s.plans[*sub.PlanID]; !ok {
			return domain.ErrNotFound
		}
	}
	cp := *sub
	r.s.subscriptions[sub.CompanyID] = &cp
	return nil
}
