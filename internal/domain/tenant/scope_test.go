package tenant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/internal/domain"
	"github.com/jhoicas/retail-api/internal/domain/entity"
	"github.com/jhoicas/retail-api/internal/domain/tenant"
)

func TestScope_Require(t *testing.T) {
	scope := tenant.NewScope("company-a")

	assert.NoError(t, scope.Require(&entity.Branch{CompanyID: "company-a"}, domain.MsgInvalidBranch))

	err := scope.Require(&entity.Branch{CompanyID: "company-b"}, domain.MsgInvalidBranch)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTenantMismatch))
	assert.Equal(t, domain.MsgInvalidBranch, err.Error())
}

func TestScope_NilYAlcanceVacio(t *testing.T) {
	var product *entity.Product
	assert.False(t, tenant.NewScope("company-a").Contains(nil))
	assert.Error(t, tenant.NewScope("company-a").Require(nilOwned(product), domain.MsgForeignProduct))
	assert.False(t, tenant.NewScope("").Contains(&entity.Product{CompanyID: ""}))
}

// nilOwned evita pasar un puntero nil tipado como interfaz no nil.
func nilOwned(p *entity.Product) tenant.Owned {
	if p == nil {
		return nil
	}
	return p
}
