package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/config"
	"github.com/trokolisz/DMSAudit/internal/handlers"
	"github.com/trokolisz/DMSAudit/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	criterias *handlers.CriteriaHandler,
	states *handlers.StateHandler,
	tokens *handlers.TokenHandler,
) {
	// Reads are open; mutations require a bearer token.
	app.Get("/criterias", criterias.List)
	app.Get("/criterias/:id", criterias.Get)

	// Token exchange for callers whose identity was verified upstream.
	// Registered before the protected group so the bearer guard does not
	// apply to it.
	app.Get("/token", middleware.VerifiedIdentity(cfg), tokens.Issue)

	protected := app.Group("/", middleware.Protected(cfg))

	protected.Post("/criterias", criterias.Create)

	protected.Post("/criteria-state/:id", states.Open)
	protected.Put("/criteria-state/:id/:year/:month/level", states.SetLevel)
	protected.Put("/criteria-state/:id/:year/:month/comment", states.SetComment)
	protected.Put("/criteria-state/:id/:year/:month/close", states.Close)
}
