// Package pdf genera el relatório de controle de estoque en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EMPRESA / ENDEREÇO / CIDADE / PERÍODO / DATA DE EXTRAÇÃO    │
//	│                                                              │
//	│            RELATÓRIO DE CONTROLE DE ESTOQUE                  │
//	│                                                              │
//	│  TABLA: SKU | Produto | Inicial | Entradas | Saídas | Atual  │
//	│                                                              │
//	│  ____________________                                        │
//	│  Responsável Técnico                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/estoque-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorGrey       = &props.Color{Red: 128, Green: 128, Blue: 128}
	colorWhiteSmoke = &props.Color{Red: 245, Green: 245, Blue: 245}
	colorBeige      = &props.Color{Red: 245, Green: 245, Blue: 220}
	colorBlack      = &props.Color{Red: 0, Green: 0, Blue: 0}
)

// Anchos de columna sobre la grilla de 12 de maroto.
var columnSizes = []int{2, 3, 2, 2, 1, 2}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.Generator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.Generator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Render(_ context.Context, r *report.PeriodReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		Build()

	m := maroto.New(cfg)

	for _, l := range r.HeaderLines {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, props.Text{Size: 10}))))
	}
	m.AddRows(row.New(8))
	m.AddRows(row.New(12).Add(col.New(12).Add(text.New(r.Title, props.Text{
		Style: fontstyle.Bold, Size: 16, Align: align.Center, Top: 2,
	}))))
	m.AddRows(row.New(6))

	m.AddRows(tableHeaderRow(r.Columns))
	for _, rr := range r.Rows {
		m.AddRows(tableDetailRow(rr.Cells()))
	}

	m.AddRows(row.New(18))
	for _, l := range r.Signature {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, props.Text{Size: 10}))))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// tableHeaderRow: cabecera gris con texto claro.
func tableHeaderRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for i, label := range columns {
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center,
			Color: colorWhiteSmoke, Top: 2,
		})).WithStyle(&props.Cell{
			BackgroundColor: colorGrey,
			BorderType:      border.Full,
			BorderColor:     colorBlack,
		}))
	}
	return row.New(9).Add(cols...)
}

// tableDetailRow: una fila por producto; el nombre va a la izquierda.
func tableDetailRow(cells []string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for i, v := range cells {
		a := align.Center
		if i == 1 {
			a = align.Left
		}
		cols = append(cols, col.New(columnSizes[i]).Add(text.New(v, props.Text{
			Size: 9, Align: a, Top: 1.5, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{
			BackgroundColor: colorBeige,
			BorderType:      border.Full,
			BorderColor:     colorBlack,
		}))
	}
	return row.New(7).Add(cols...)
}
