package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retail-api/internal/domain/access"
	"github.com/jhoicas/retail-api/internal/domain/entity"
)

func TestResolve_SinAsignacionUsaMatriz(t *testing.T) {
	s := access.Resolve(entity.PlanBasico, nil)

	assert.Equal(t, access.KindFallbackMatrix, s.Kind())
	assert.True(t, s.Allows(entity.FeatureInventory))
	assert.False(t, s.Allows(entity.FeatureReports), "BASICO no incluye reportes")
}

func TestResolve_MatrizEsCreciente(t *testing.T) {
	basico := access.DefaultPlanMatrix[entity.PlanBasico]
	for _, f := range basico {
		assert.True(t, access.FallbackMatrix(entity.PlanEstandar).Allows(f), f)
	}
	for _, f := range access.DefaultPlanMatrix[entity.PlanEstandar] {
		assert.True(t, access.FallbackMatrix(entity.PlanPremium).Allows(f), f)
	}
	assert.True(t, access.FallbackMatrix(entity.PlanPremium).Allows(entity.FeatureBranchesUnlimited))
	assert.False(t, access.FallbackMatrix(entity.PlanEstandar).Allows(entity.FeatureBranchesUnlimited))
}

func TestResolve_CodigoDesconocidoNiegaTodo(t *testing.T) {
	s := access.Resolve("ENTERPRISE", nil)
	assert.False(t, s.Allows(entity.FeatureInventory))
}

func TestResolve_AsignacionExplicitaReemplazaMatriz(t *testing.T) {
	// PREMIUM con asignación explícita reducida: la matriz ya no se consulta.
	s := access.Resolve(entity.PlanPremium, []string{entity.FeatureInventory})

	assert.Equal(t, access.KindExplicitAssignment, s.Kind())
	assert.True(t, s.Allows(entity.FeatureInventory))
	assert.False(t, s.Allows(entity.FeatureReports))
}
