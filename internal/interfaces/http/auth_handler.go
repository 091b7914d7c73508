package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/domain"
)

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler maneja login y logout.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	cookie CookieConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

// LoginPage GET /login. Con sesión válida redirige a /produtos.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if token := c.Cookies(h.cookie.Name); token != "" {
		if _, err := h.uc.ParseSession(token); err == nil {
			return c.Redirect("/produtos", fiber.StatusFound)
		}
	}
	return render(c, fiber.StatusOK, "login", fiber.Map{"Title": "Login", "LoginUser": ""})
}

// Login POST /login. Credencial incorrecta: 401 con mensaje genérico y sin cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	token, err := h.uc.Login(username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return render(c, fiber.StatusUnauthorized, "login", fiber.Map{
				"Title":     "Login",
				"Error":     "Credenciais inválidas!",
				"LoginUser": username,
			})
		}
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(h.uc.TTL()),
	})
	return redirectWithFlash(c, "/produtos", FlashSuccess, "Login realizado com sucesso!")
}

// Logout GET /logout. Borra la cookie de sesión.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(h.cookie.Name)
	return redirectWithFlash(c, "/login", FlashSuccess, "Logout realizado com sucesso!")
}
