// Package excel exporta listados a xlsx con excelize.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/caja-api/internal/application/dto"
)

const movementsSheet = "Movimientos"

var movementHeaders = []string{
	"Fecha", "Producto", "Bodega", "Tipo", "Cantidad", "Antes", "Después",
	"Referencia", "ID referencia", "Costo unitario", "Motivo", "Usuario",
}

// MovementExporter implementa inventory.MovementExporter.
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// ExportMovements escribe una hoja con encabezado y una fila por movimiento.
func (e *MovementExporter) ExportMovements(rows []dto.MovementResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), movementsSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	header := make([]interface{}, len(movementHeaders))
	for i, h := range movementHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(movementsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: encabezado: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(movementHeaders), 1)
	if err := f.SetCellStyle(movementsSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("excel: estilo encabezado: %w", err)
	}

	for i, m := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		qty, _ := m.Quantity.Float64()
		before, _ := m.QuantityBefore.Float64()
		after, _ := m.QuantityAfter.Float64()
		cost, _ := m.UnitCost.Float64()
		values := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.ProductID,
			m.WarehouseID,
			m.Type,
			qty,
			before,
			after,
			m.ReferenceType,
			m.ReferenceID,
			cost,
			m.Reason,
			m.UserID,
		}
		if err := f.SetSheetRow(movementsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(movementsSheet, "A", "A", 20)
	_ = f.SetColWidth(movementsSheet, "B", "C", 38)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
