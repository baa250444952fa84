package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "company-1", "vendedor", "retail-api", 5)
	require.NoError(t, err)

	userID, companyID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, "vendedor", role)

	claims, err := jwt.ParseClaims("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "retail-api", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "company-1", "vendedor", "retail-api", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_ExpiracionPorDefectoYTokenMalformado(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "company-1", "vendedor", "retail-api", -1)
	require.NoError(t, err)
	// expMinutes <= 0 toma el valor por defecto, así que el token sigue vigente
	_, err = jwt.ParseClaims("secreto", token)
	assert.NoError(t, err)

	_, err = jwt.ParseClaims("secreto", "no-es-un-token")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "", "super_admin", "retail-api", 5)
	assert.Error(t, err)
}
