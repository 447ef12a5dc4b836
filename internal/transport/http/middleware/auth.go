package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/transport/http/dto"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards a route group with the admin API key. The key arrives in
// X-Admin-Token or as a Bearer token and is checked against the bcrypt hash
// when one is configured, else against the plaintext key. With neither set
// the group is open.
func AdminAuth(cfg config.AuthConfig) fiber.Handler {
	hash := []byte(cfg.AdminAPIKeyHash)
	key := []byte(cfg.AdminAPIKey)

	return func(c *fiber.Ctx) error {
		if len(hash) == 0 && len(key) == 0 {
			return c.Next()
		}

		token := presentedToken(c)
		if token == "" || !tokenMatches(hash, key, token) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("unauthorized"))
		}

		return c.Next()
	}
}

func presentedToken(c *fiber.Ctx) string {
	if token := c.Get("X-Admin-Token"); token != "" {
		return token
	}
	const prefix = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

func tokenMatches(hash, key []byte, token string) bool {
	if len(hash) > 0 {
		return bcrypt.CompareHashAndPassword(hash, []byte(token)) == nil
	}
	return subtle.ConstantTimeCompare(key, []byte(token)) == 1
}
