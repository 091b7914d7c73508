package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	flashCookie     = "estoque_flash"
	flashStoreLocal = "flashStore"
	flashKindKey    = "kind"
	flashMessageKey = "message"
)

// Tipos de mensaje flash (clases CSS del layout).
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash mensaje de un solo uso mostrado en el próximo render.
type Flash struct {
	Kind    string
	Message string
}

// NewFlashStore store de sesión de fiber dedicado a los mensajes flash. La cookie solo lleva
// el id; el mensaje queda del lado del servidor hasta que se muestra.
func NewFlashStore(secure bool) *session.Store {
	return session.New(session.Config{
		Expiration:     5 * time.Minute,
		KeyLookup:      "cookie:" + flashCookie,
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// FlashMiddleware deja el store disponible para los handlers.
func FlashMiddleware(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(flashStoreLocal, store)
		return c.Next()
	}
}

func flashStore(c *fiber.Ctx) *session.Store {
	store, _ := c.Locals(flashStoreLocal).(*session.Store)
	return store
}

// setFlash guarda el mensaje para la próxima página.
func setFlash(c *fiber.Ctx, kind, message string) error {
	store := flashStore(c)
	if store == nil {
		return nil
	}
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashKindKey, kind)
	sess.Set(flashMessageKey, message)
	return sess.Save()
}

// takeFlash lee y descarta el mensaje pendiente.
func takeFlash(c *fiber.Ctx) *Flash {
	store := flashStore(c)
	if store == nil || c.Cookies(flashCookie) == "" {
		return nil
	}
	sess, err := store.Get(c)
	if err != nil {
		return nil
	}
	kind, _ := sess.Get(flashKindKey).(string)
	msg, _ := sess.Get(flashMessageKey).(string)
	if err := sess.Destroy(); err != nil || msg == "" {
		return nil
	}
	return &Flash{Kind: kind, Message: msg}
}

// redirectWithFlash redirige (302) dejando un mensaje flash.
func redirectWithFlash(c *fiber.Ctx, location, kind, message string) error {
	if err := setFlash(c, kind, message); err != nil {
		return err
	}
	return c.Redirect(location, fiber.StatusFound)
}
