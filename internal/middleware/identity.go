package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// VerifiedIdentity establishes the caller's externally verified identity for
// the token endpoint. The identity comes from the trusted reverse-proxy
// header (set after Negotiate/SSO verification upstream), or from Basic
// credentials checked against the configured bcrypt hashes.
func VerifiedIdentity(cfg *config.Config) fiber.Handler {
	users := parseAuthUsers(cfg.AuthUsers)

	return func(c *fiber.Ctx) error {
		if identity := c.Get(cfg.IdentityHeader); identity != "" {
			c.Locals("identity", identity)
			return c.Next()
		}

		username, password, ok := basicCredentials(c.Get("Authorization"))
		if ok {
			hash, found := users[username]
			if found && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
				c.Locals("identity", username)
				return c.Next()
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No verified identity",
		})
	}
}

// GetIdentity returns the verified identity, or "" when none was established.
func GetIdentity(c *fiber.Ctx) string {
	identity, ok := c.Locals("identity").(string)
	if !ok {
		return ""
	}
	return identity
}

// parseAuthUsers splits "user:bcrypt-hash" pairs. Bcrypt hashes contain
// neither commas nor colons, so the plain split is safe.
func parseAuthUsers(raw string) map[string]string {
	users := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if name, hash, ok := strings.Cut(entry, ":"); ok {
			users[name] = hash
		}
	}
	return users
}

func basicCredentials(authHeader string) (username, password string, ok bool) {
	encoded := strings.TrimPrefix(authHeader, "Basic ")
	if encoded == authHeader {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}

	return strings.Cut(string(decoded), ":")
}
