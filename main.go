package main

import (
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/trokolisz/DMSAudit/internal/config"
	"github.com/trokolisz/DMSAudit/internal/database"
	"github.com/trokolisz/DMSAudit/internal/handlers"
	"github.com/trokolisz/DMSAudit/internal/routes"
	"github.com/trokolisz/DMSAudit/internal/services"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	roleLookup := services.NewRoleLookup(cfg)
	authService := services.NewAuthService(cfg, roleLookup, log)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Setup(app, cfg,
		handlers.NewCriteriaHandler(db, log),
		handlers.NewStateHandler(db, log),
		handlers.NewTokenHandler(authService, log),
	)

	log.Info("starting dmsaudit api", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
