package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID key de Locals con el usuario que origina la petición.
const LocalUserID = "user_id"

// HeaderUserID cabecera con el usuario, informada por el gateway que autentica.
const HeaderUserID = "X-User-ID"

// RequestUser copia el usuario de la cabecera a c.Locals. La API no autentica;
// el valor solo queda registrado como autor de los movimientos.
func RequestUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := strings.TrimSpace(c.Get(HeaderUserID)); id != "" {
			c.Locals(LocalUserID, id)
		}
		return c.Next()
	}
}

// GetUserID devuelve el usuario del contexto (después de RequestUser).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
