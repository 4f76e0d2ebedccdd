package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/middleware"
	"github.com/trokolisz/DMSAudit/internal/services"
)

type TokenHandler struct {
	auth   *services.AuthService
	logger *slog.Logger
}

func NewTokenHandler(auth *services.AuthService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{auth: auth, logger: logger}
}

// Issue exchanges the verified external identity for a bearer token.
// Failures during lookup or signing are logged in full and reported to the
// caller as a generic 500.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	response, err := h.auth.IssueToken(c.UserContext(), identity)
	if errors.Is(err, services.ErrNoIdentity) {
		h.logger.Warn("token requested without a verified identity")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "No verified identity",
		})
	}
	if err != nil {
		h.logger.Error("token issuance failed", "user", identity, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Authentication failed",
		})
	}

	return c.JSON(response)
}
