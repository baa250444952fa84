// Package access resuelve qué funcionalidades habilita un plan.
//
// La resolución tiene dos variantes, elegidas de forma determinista:
//
//   - ExplicitAssignment: el plan tiene funcionalidades asignadas explícitamente;
//     se permite solo lo asignado.
//   - FallbackMatrix: el plan no tiene asignaciones; se usa la matriz estática por
//     código de plan (BASICO ⊂ ESTANDAR ⊂ PREMIUM). Códigos desconocidos no habilitan nada.
package access

import "github.com/jhoicas/retail-api/internal/domain/entity"

// StrategyKind identifica la variante de resolución.
type StrategyKind string

const (
	KindExplicitAssignment StrategyKind = "explicit_assignment"
	KindFallbackMatrix     StrategyKind = "fallback_matrix"
)

// Strategy decide si un código de funcionalidad está habilitado.
type Strategy interface {
	Kind() StrategyKind
	Allows(featureCode string) bool
}

var basicFeatures = []string{
	entity.FeatureInventory,
	entity.FeatureSales,
	entity.FeatureOrders,
	entity.FeaturePOS,
	entity.FeatureUserManagement,
}

// DefaultPlanMatrix es la matriz de respaldo para planes sin asignación explícita.
var DefaultPlanMatrix = map[string][]string{
	entity.PlanBasico:   basicFeatures,
	entity.PlanEstandar: append(append([]string{}, basicFeatures...), entity.FeatureReports),
	entity.PlanPremium:  append(append([]string{}, basicFeatures...), entity.FeatureReports, entity.FeatureBranchesUnlimited),
}

// ExplicitAssignment es el conjunto de códigos asignados al plan.
type ExplicitAssignment map[string]struct{}

// NewExplicitAssignment construye el conjunto desde una lista de códigos.
func NewExplicitAssignment(codes []string) ExplicitAssignment {
	set := make(ExplicitAssignment, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

func (e ExplicitAssignment) Kind() StrategyKind { return KindExplicitAssignment }

func (e ExplicitAssignment) Allows(featureCode string) bool {
	_, ok := e[featureCode]
	return ok
}

// FallbackMatrix resuelve contra DefaultPlanMatrix usando el código del plan.
type FallbackMatrix string

func (f FallbackMatrix) Kind() StrategyKind { return KindFallbackMatrix }

func (f FallbackMatrix) Allows(featureCode string) bool {
	for _, c := range DefaultPlanMatrix[string(f)] {
		if c == featureCode {
			return true
		}
	}
	return false
}

// Resolve elige la variante: asignación explícita si hay al menos un código asignado,
// matriz de respaldo en caso contrario.
func Resolve(planCode string, assigned []string) Strategy {
	if len(assigned) > 0 {
		return NewExplicitAssignment(assigned)
	}
	return FallbackMatrix(planCode)
}
