package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// render pinta una vista con el layout, agregando usuario y flash pendiente.
func render(c *fiber.Ctx, status int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["Flash"]; !ok {
		if f := takeFlash(c); f != nil {
			data["Flash"] = f
		}
	}
	data["Username"] = GetUsername(c)
	return c.Status(status).Render(view, data)
}

// renderFormError re-renderiza el formulario con el mensaje de error (422) cuando el error es de
// validación o de stock insuficiente. Otros errores se devuelven para el ErrorHandler.
func renderFormError(c *fiber.Ctx, err error, view string, data fiber.Map) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		data["Error"] = verr.Message
	case errors.Is(err, domain.ErrInsufficientStock):
		data["Error"] = err.Error()
	default:
		return err
	}
	return render(c, fiber.StatusUnprocessableEntity, view, data)
}

// ErrorHandler maneja los errores no resueltos en los handlers: 404 para recursos inexistentes,
// 500 con log para lo demás.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Erro interno. Tente novamente."

		var fe *fiber.Error
		switch {
		case errors.Is(err, domain.ErrNotFound):
			status = fiber.StatusNotFound
			message = "Registro não encontrado"
		case errors.As(err, &fe):
			status = fe.Code
			message = fe.Message
		}
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", GetRequestID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error no manejado")
		}
		if rerr := render(c, status, "erro", fiber.Map{"Status": status, "Message": message}); rerr != nil {
			return c.Status(status).SendString(message)
		}
		return nil
	}
}
