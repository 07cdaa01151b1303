package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch_PorDefectoEspañol(t *testing.T) {
	assert.Equal(t, language.Spanish, Match(""))
	assert.Equal(t, language.Spanish, Match("de-DE"))
	assert.Equal(t, language.Spanish, Match("es-CO,es;q=0.9"))
	assert.Equal(t, language.English, Match("en-US,en;q=0.8"))
}

func TestT_TraduceConArgumentos(t *testing.T) {
	assert.Equal(t, "Inventory record not found", T(language.English, InventoryNotFound))
	assert.Equal(t,
		"Stock insuficiente para Galletas: disponible 100, requerido 120",
		T(language.Spanish, InsufficientStockDetail, "Galletas", "100", "120"))
}
