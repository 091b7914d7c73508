package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler maneja el formulario y la descarga del relatório (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Form GET /relatorios.
func (h *ReportHandler) Form(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "relatorios", fiber.Map{"Title": "Relatórios"})
}

// PDF GET /relatorio/pdf?data_inicio&data_fim&nome_engenheiro&registro_engenheiro.
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	return h.download(c, h.uc.ExportPDF, mimePDF)
}

// XLSX GET /relatorio/xlsx con los mismos parámetros.
func (h *ReportHandler) XLSX(c *fiber.Ctx) error {
	return h.download(c, h.uc.ExportXLSX, mimeXLSX)
}

type exportFunc func(ctx context.Context, req report.Request) ([]byte, string, error)

// download sin período válido vuelve a /relatorios con el mensaje, sin generar documento.
func (h *ReportHandler) download(c *fiber.Ctx, export exportFunc, mime string) error {
	req := report.Request{
		Start:            parseDateParam(c.Query("data_inicio")),
		End:              parseDateParam(c.Query("data_fim")),
		SignerName:       c.Query("nome_engenheiro"),
		SignerCredential: c.Query("registro_engenheiro"),
	}
	b, filename, err := export(c.UserContext(), req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return redirectWithFlash(c, "/relatorios", FlashError, verr.Message)
		}
		return err
	}
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(b)
}
