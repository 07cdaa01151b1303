package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TokenValido(t *testing.T) {
	tok, err := Generate("secreto", "u1", "c1", "cajero", "caja-api", time.Minute)
	require.NoError(t, err)

	claims, err := Parse("secreto", "caja-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "cajero", claims.Role)
}

func TestParse_FirmaOEmisorIncorrectos(t *testing.T) {
	tok, err := Generate("secreto", "u1", "c1", "cajero", "otro", time.Minute)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", "", tok)
	assert.Error(t, err)
	_, err = Parse("secreto", "caja-api", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secreto", "u1", "c1", "cajero", "caja-api", -time.Minute)
	require.NoError(t, err)
	_, err = Parse("secreto", "caja-api", tok)
	assert.Error(t, err)
}
