package http

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
)

// dateLayout formato de los input type=date del navegador.
const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores usan el nombre del campo del formulario (nome, quantidade...).
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldMessages mensajes presentables por campo y regla.
var fieldMessages = map[string]string{
	"nome.required":       "Informe o nome do produto",
	"nome.max":            "O nome deve ter no máximo 100 caracteres",
	"marca.required":      "Informe a marca",
	"marca.max":           "A marca deve ter no máximo 100 caracteres",
	"formato.required":    "Informe o formato (unidade de medida)",
	"formato.max":         "O formato deve ter no máximo 20 caracteres",
	"produto_id.required": "Selecione um produto",
	"produto_id.numeric":  "Selecione um produto",
	"quantidade.required": "Informe a quantidade",
	"data.required":       "Informe a data",
	"data.datetime":       "Data inválida",
	"observacoes.max":     "As observações devem ter no máximo 2000 caracteres",
}

// validateForm corre el validador y convierte el primer error en *domain.ValidationError.
func validateForm(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = "Campo inválido: " + fe.Field()
	}
	return domain.Invalid(fe.Field(), msg)
}

// parseProductForm lee y valida el formulario de producto.
func parseProductForm(c *fiber.Ctx) (dto.ProductForm, error) {
	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return form, domain.Invalid("form", "Formulário inválido")
	}
	form.Name = strings.TrimSpace(form.Name)
	form.Brand = strings.TrimSpace(form.Brand)
	form.Unit = strings.TrimSpace(form.Unit)
	return form, validateForm(form)
}

// parseMovementForm lee y valida el formulario de entrada/salida y lo convierte a MovementInput.
// La cantidad acepta coma decimal (1,5).
func parseMovementForm(c *fiber.Ctx) (dto.MovementForm, dto.MovementInput, error) {
	var form dto.MovementForm
	if err := c.BodyParser(&form); err != nil {
		return form, dto.MovementInput{}, domain.Invalid("form", "Formulário inválido")
	}
	form.Quantity = strings.TrimSpace(form.Quantity)
	form.Date = strings.TrimSpace(form.Date)
	if err := validateForm(form); err != nil {
		return form, dto.MovementInput{}, err
	}

	pid, err := strconv.ParseInt(form.ProductID, 10, 64)
	if err != nil || pid <= 0 {
		return form, dto.MovementInput{}, domain.Invalid("produto_id", "Selecione um produto")
	}
	qty, err := parseQuantity(form.Quantity)
	if err != nil {
		return form, dto.MovementInput{}, domain.Invalid("quantidade", "Quantidade inválida")
	}
	date, err := time.Parse(dateLayout, form.Date)
	if err != nil {
		return form, dto.MovementInput{}, domain.Invalid("data", "Data inválida")
	}
	return form, dto.MovementInput{ProductID: pid, Quantity: qty, Date: date, Notes: form.Notes}, nil
}

func parseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return decimal.NewFromString(s)
}

// parseDateParam interpreta un parámetro de query opcional (YYYY-MM-DD). Vacío o inválido devuelve nil.
func parseDateParam(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil
	}
	return &t
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
