package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/trokolisz/DMSAudit/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "DMSAudit",
		JWTAudience:    "DMSAudit",
		IdentityHeader: "X-Remote-User",
	}
}

func protectedApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/probe", Protected(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": GetUsername(c)})
	})
	return app
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(username string) Claims {
	now := time.Now().UTC()
	return Claims{
		Username: username,
		Roles:    []string{"User"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    "DMSAudit",
			Audience:  jwt.ClaimStrings{"DMSAudit"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, validClaims("alice")))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProtectedRejections(t *testing.T) {
	cfg := testConfig()
	app := protectedApp(cfg)

	expired := validClaims("alice")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute))

	wrongIssuer := validClaims("alice")
	wrongIssuer.Issuer = "SomeoneElse"

	wrongAudience := validClaims("alice")
	wrongAudience.Audience = jwt.ClaimStrings{"OtherApp"}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", validClaims("alice"))},
		{"expired", "Bearer " + signToken(t, cfg.JWTSecret, expired)},
		{"wrong issuer", "Bearer " + signToken(t, cfg.JWTSecret, wrongIssuer)},
		{"wrong audience", "Bearer " + signToken(t, cfg.JWTSecret, wrongAudience)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusUnauthorized {
				t.Errorf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGetUsernameFallsBackToUnknown(t *testing.T) {
	app := fiber.New()
	app.Get("/probe", func(c *fiber.Ctx) error {
		if user := GetUsername(c); user != "unknown" {
			t.Errorf("expected unknown, got %q", user)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	if _, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/probe", nil), -1); err != nil {
		t.Fatalf("request failed: %v", err)
	}
}
