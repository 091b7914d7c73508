package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
)

// LocalUsername key del usuario autenticado en Locals.
const LocalUsername = "username"

// SessionMiddleware valida la cookie de sesión (JWT firmado) y carga el usuario en c.Locals
// y en el context de la petición. Sin sesión válida redirige a /login.
func SessionMiddleware(uc *auth.AuthUseCase, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return c.Redirect("/login", fiber.StatusFound)
		}
		session, err := uc.ParseSession(token)
		if err != nil {
			c.ClearCookie(cookieName)
			return c.Redirect("/login", fiber.StatusFound)
		}
		c.Locals(LocalUsername, session.Username)
		c.SetUserContext(auth.WithSession(c.UserContext(), session))
		return c.Next()
	}
}

// GetUsername devuelve el usuario de la sesión (después del middleware de sesión).
func GetUsername(c *fiber.Ctx) string {
	v := c.Locals(LocalUsername)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
