package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-api/internal/infrastructure/idgen"
)

func TestSaleNumbers_UnicosConPrefijo(t *testing.T) {
	g, err := idgen.NewSaleNumbers(7, "V")
	require.NoError(t, err)

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		n := g.Next()
		assert.True(t, strings.HasPrefix(n, "V-"))
		assert.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
	}
}

func TestSaleNumbers_NodoFueraDeRango(t *testing.T) {
	_, err := idgen.NewSaleNumbers(5000, "V")
	assert.Error(t, err)
}
