package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
	"github.com/jhoicas/caja-api/internal/infrastructure/excel"
)

func TestExportMovements_EncabezadoYFilas(t *testing.T) {
	rows := []dto.MovementResponse{{
		ID:             "m1",
		ProductID:      "p1",
		WarehouseID:    "w1",
		Type:           "OUT",
		Quantity:       decimal.NewFromInt(120),
		QuantityBefore: decimal.NewFromInt(250),
		QuantityAfter:  decimal.NewFromInt(130),
		ReferenceType:  "sale",
		ReferenceID:    "s1",
		CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}

	out, err := excel.NewMovementExporter().ExportMovements(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Movimientos")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Fecha", got[0][0])
	assert.Equal(t, "p1", got[1][1])
	assert.Equal(t, "120", got[1][4])
	assert.Equal(t, "sale", got[1][7])
}
