package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
)

func sampleReport() *report.PeriodReport {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	return &report.PeriodReport{
		Start:       start,
		End:         end,
		HeaderLines: report.HeaderLines(report.Organization{Name: "JIQUIAGROPECUÁRIA", Address: "AV. 1", City: "JIQUIRIÇÁ"}, start, end, end),
		Title:       report.Title,
		Columns:     report.Columns,
		Rows: []report.Row{
			{SKU: "PRD0001", Name: "Herbicida Glifosato Premium 480", Opening: decimal.NewFromInt(100), Entries: decimal.NewFromInt(50), Exits: decimal.NewFromInt(30), Closing: decimal.NewFromInt(120)},
			{SKU: "PRD0002", Name: "Calcário", Opening: decimal.Zero, Entries: decimal.Zero, Exits: decimal.Zero, Closing: decimal.Zero},
		},
		Signature: report.SignatureLines("Maria Souza", "CREA 12345"),
	}
}

func TestMarotoPDFGenerator_Render(t *testing.T) {
	b, err := pdf.NewMarotoPDFGenerator().Render(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "el documento debe empezar con la firma %%PDF")
}

func TestMarotoPDFGenerator_SinProductos(t *testing.T) {
	r := sampleReport()
	r.Rows = nil
	r.Signature = report.SignatureLines("", "")

	b, err := pdf.NewMarotoPDFGenerator().Render(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
