package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Generator renderiza un PeriodReport a bytes (PDF, XLSX...).
type Generator interface {
	Render(ctx context.Context, r *PeriodReport) ([]byte, error)
}

// UseCase arma el relatório del período y lo exporta.
type UseCase struct {
	products repository.ProductRepository
	calc     *inventory.StockCalculator
	org      Organization
	pdf      Generator
	xlsx     Generator
	now      func() time.Time
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(
	products repository.ProductRepository,
	calc *inventory.StockCalculator,
	org Organization,
	pdf Generator,
	xlsx Generator,
) *UseCase {
	return &UseCase{products: products, calc: calc, org: org, pdf: pdf, xlsx: xlsx, now: time.Now}
}

// WithClock reemplaza el reloj usado para la fecha de extracción.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Build arma el relatório. Sin fecha de inicio o de fin devuelve domain.ErrInvalidInput
// antes de consultar nada.
func (uc *UseCase) Build(ctx context.Context, req Request) (*PeriodReport, error) {
	if req.Start == nil || req.End == nil {
		return nil, domain.Invalid("periodo", "Por favor, informe o período para o relatório")
	}
	start := entity.DateOnly(*req.Start)
	end := entity.DateOnly(*req.End)
	if start.After(end) {
		return nil, domain.Invalid("periodo", "A data inicial deve ser anterior ou igual à data final")
	}

	products, err := uc.products.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("relatório: listar produtos: %w", err)
	}
	rows := make([]Row, 0, len(products))
	for _, p := range products {
		row, err := uc.row(ctx, p, start, end)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &PeriodReport{
		Start:       start,
		End:         end,
		HeaderLines: HeaderLines(uc.org, start, end, uc.now()),
		Title:       Title,
		Columns:     Columns,
		Rows:        rows,
		Signature:   SignatureLines(req.SignerName, req.SignerCredential),
	}, nil
}

func (uc *UseCase) row(ctx context.Context, p *entity.Product, start, end time.Time) (Row, error) {
	opening, err := uc.calc.CurrentStock(ctx, p.ID, &start)
	if err != nil {
		return Row{}, err
	}
	entries, err := uc.calc.PeriodEntries(ctx, p.ID, &start, &end)
	if err != nil {
		return Row{}, err
	}
	exits, err := uc.calc.PeriodExits(ctx, p.ID, &start, &end)
	if err != nil {
		return Row{}, err
	}
	closing, err := uc.calc.CurrentStock(ctx, p.ID, &end)
	if err != nil {
		return Row{}, err
	}
	return Row{SKU: p.SKU, Name: p.Name, Opening: opening, Entries: entries, Exits: exits, Closing: closing}, nil
}

// ExportPDF arma y renderiza el relatório en PDF. Devuelve bytes y nombre de archivo.
func (uc *UseCase) ExportPDF(ctx context.Context, req Request) ([]byte, string, error) {
	return uc.export(ctx, req, uc.pdf, "pdf")
}

// ExportXLSX arma y renderiza el relatório en planilla Excel.
func (uc *UseCase) ExportXLSX(ctx context.Context, req Request) ([]byte, string, error) {
	return uc.export(ctx, req, uc.xlsx, "xlsx")
}

func (uc *UseCase) export(ctx context.Context, req Request, gen Generator, ext string) ([]byte, string, error) {
	if gen == nil {
		return nil, "", fmt.Errorf("relatório: generador %s no configurado", ext)
	}
	r, err := uc.Build(ctx, req)
	if err != nil {
		return nil, "", err
	}
	b, err := gen.Render(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("relatório: render %s: %w", ext, err)
	}
	return b, FileName(r.Start, r.End, ext), nil
}
