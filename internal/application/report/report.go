// Package report arma el relatório de controle de estoque de un período
// y delega el render (PDF, XLSX) a generadores inyectados.
package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Title título fijo del relatório.
const Title = "RELATÓRIO DE CONTROLE DE ESTOQUE"

// MaxNameRunes largo máximo del nombre de producto en la tabla antes de truncar.
const MaxNameRunes = 25

const signatureLine = "_________________________________"

// Columns cabecera de la tabla de productos.
var Columns = []string{"SKU", "Produto", "Estoque Inicial", "Entradas", "Saídas", "Estoque Atual"}

// Organization textos fijos del encabezado.
type Organization struct {
	Name    string
	Address string
	City    string
}

// Request parámetros del relatório. Start y End son obligatorios.
type Request struct {
	Start            *time.Time
	End              *time.Time
	SignerName       string
	SignerCredential string
}

// Row una fila por producto.
type Row struct {
	SKU     string
	Name    string
	Opening decimal.Decimal // stock al inicio del período (incluye los movimientos del día inicial)
	Entries decimal.Decimal
	Exits   decimal.Decimal
	Closing decimal.Decimal
}

// Cells valores de la fila tal como se imprimen: nombre truncado y cantidades con un decimal.
func (r Row) Cells() []string {
	sku := r.SKU
	if sku == "" {
		sku = "N/A"
	}
	return []string{
		sku,
		TruncateName(r.Name),
		FormatQuantity(r.Opening),
		FormatQuantity(r.Entries),
		FormatQuantity(r.Exits),
		FormatQuantity(r.Closing),
	}
}

// PeriodReport documento listo para renderizar.
type PeriodReport struct {
	Start       time.Time
	End         time.Time
	HeaderLines []string
	Title       string
	Columns     []string
	Rows        []Row
	Signature   []string
}

// HeaderLines encabezado: empresa, dirección, ciudad, período y fecha de extracción.
func HeaderLines(org Organization, start, end, extractedAt time.Time) []string {
	return []string{
		"EMPRESA: " + org.Name,
		"ENDEREÇO: " + org.Address,
		"CIDADE: " + org.City,
		fmt.Sprintf("PERÍODO: %s até %s", FormatDate(start), FormatDate(end)),
		"DATA DE EXTRAÇÃO: " + FormatDate(extractedAt),
	}
}

// SignatureLines bloque de firma del responsable técnico según los datos informados.
func SignatureLines(name, credential string) []string {
	name = strings.TrimSpace(name)
	credential = strings.TrimSpace(credential)
	switch {
	case name != "" && credential != "":
		return []string{signatureLine, name, "Engenheiro Agrônomo - " + credential, "Responsável Técnico"}
	case name != "":
		return []string{signatureLine, name, "Engenheiro Agrônomo", "Responsável Técnico"}
	case credential != "":
		return []string{signatureLine, "Engenheiro Agrônomo - " + credential, "Responsável Técnico"}
	default:
		return []string{signatureLine, "Assinatura do Responsável Técnico"}
	}
}

// TruncateName corta en MaxNameRunes caracteres y agrega "..." si el nombre es más largo.
func TruncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameRunes {
		return name
	}
	return string([]rune(name)[:MaxNameRunes]) + "..."
}

// FormatQuantity cantidad con un decimal.
func FormatQuantity(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// FormatDate dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FileName relatorio_estoque_<inicio>_<fim>.<ext> con fechas YYYYMMDD.
func FileName(start, end time.Time, ext string) string {
	return fmt.Sprintf("relatorio_estoque_%s_%s.%s", start.Format("20060102"), end.Format("20060102"), ext)
}
