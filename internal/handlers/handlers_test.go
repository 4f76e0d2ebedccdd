package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/config"
	"github.com/trokolisz/DMSAudit/internal/database"
	"github.com/trokolisz/DMSAudit/internal/handlers"
	"github.com/trokolisz/DMSAudit/internal/models"
	"github.com/trokolisz/DMSAudit/internal/routes"
	"github.com/trokolisz/DMSAudit/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// newTestApp wires the full route table against an in-memory database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:      testSecret,
		JWTIssuer:      "DMSAudit",
		JWTAudience:    "DMSAudit",
		IdentityHeader: "X-Remote-User",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := services.NewAuthService(cfg, services.StaticRoleLookup{RoleNames: []string{"User"}}, log)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewCriteriaHandler(db, log),
		handlers.NewStateHandler(db, log),
		handlers.NewTokenHandler(auth, log),
	)
	return app, db
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// bearerToken obtains a real token through the /token endpoint using the
// trusted-header identity path.
func bearerToken(t *testing.T, app *fiber.App, user string) string {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/token", nil)
	req.Header.Set("X-Remote-User", user)
	resp := do(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("token request returned %d", resp.StatusCode)
	}
	var tr models.TokenResponse
	decode(t, resp, &tr)
	return tr.Token
}

func createCriteria(t *testing.T, app *fiber.App, token, name string) models.Criteria {
	t.Helper()
	req := jsonRequest(fiber.MethodPost, "/criterias", models.CreateCriteriaRequest{
		Name:        name,
		Description: "test criteria",
		Group:       "Ops",
		LevelDescriptions: []string{
			"not started", "initial", "defined", "managed", "optimized",
		},
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(t, app, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create criteria returned %d", resp.StatusCode)
	}
	var created models.Criteria
	decode(t, resp, &created)
	return created
}

func openMonth(t *testing.T, app *fiber.App, token string, criteriaID uint, year, month int) models.CriteriaState {
	t.Helper()
	target := fmt.Sprintf("/criteria-state/%d?year=%d&month=%d", criteriaID, year, month)
	req := jsonRequest(fiber.MethodPost, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := do(t, app, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("open month returned %d", resp.StatusCode)
	}
	var state models.CriteriaState
	decode(t, resp, &state)
	return state
}
