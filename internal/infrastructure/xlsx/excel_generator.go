// Package xlsx exporta el relatório de controle de estoque como planilla Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// SheetName nombre de la hoja del relatório.
const SheetName = "Estoque"

var _ report.Generator = (*ExcelGenerator)(nil)

// ExcelGenerator implementa report.Generator con excelize.
type ExcelGenerator struct{}

// NewExcelGenerator construye el generador.
func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

// Render escribe encabezado, tabla y firma en una hoja y devuelve el .xlsx en bytes.
// Las cantidades van como números con formato de un decimal para que la planilla pueda sumarlas.
func (g *ExcelGenerator) Render(_ context.Context, r *report.PeriodReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "F5F5F5"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"808080"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    fullBorder(),
	})
	if err != nil {
		return nil, err
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: strPtr("0.0"),
		Alignment:    &excelize.Alignment{Horizontal: "center"},
		Border:       fullBorder(),
	})
	if err != nil {
		return nil, err
	}
	textStyle, err := f.NewStyle(&excelize.Style{Border: fullBorder()})
	if err != nil {
		return nil, err
	}

	rowNo := 1
	for _, l := range r.HeaderLines {
		if err := f.SetCellValue(SheetName, cell(1, rowNo), l); err != nil {
			return nil, err
		}
		rowNo++
	}
	rowNo++

	if err := f.SetCellValue(SheetName, cell(1, rowNo), r.Title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, cell(1, rowNo), cell(1, rowNo), boldStyle); err != nil {
		return nil, err
	}
	rowNo += 2

	header := make([]interface{}, 0, len(r.Columns))
	for _, c := range r.Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, cell(1, rowNo), &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, cell(1, rowNo), cell(len(r.Columns), rowNo), headerStyle); err != nil {
		return nil, err
	}
	rowNo++

	for _, rr := range r.Rows {
		cells := rr.Cells()
		values := []interface{}{
			cells[0],
			cells[1],
			rr.Opening.InexactFloat64(),
			rr.Entries.InexactFloat64(),
			rr.Exits.InexactFloat64(),
			rr.Closing.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, cell(1, rowNo), &values); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell(1, rowNo), cell(2, rowNo), textStyle); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell(3, rowNo), cell(6, rowNo), numberStyle); err != nil {
			return nil, err
		}
		rowNo++
	}
	rowNo += 2

	for _, l := range r.Signature {
		if err := f.SetCellValue(SheetName, cell(1, rowNo), l); err != nil {
			return nil, err
		}
		rowNo++
	}

	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "C", "F", 16); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir planilla: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func fullBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func strPtr(s string) *string { return &s }
