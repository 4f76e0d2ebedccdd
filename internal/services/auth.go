package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trokolisz/DMSAudit/internal/config"
	"github.com/trokolisz/DMSAudit/internal/middleware"
	"github.com/trokolisz/DMSAudit/internal/models"
)

const tokenValidity = time.Hour

// ErrNoIdentity means the upstream trust mechanism did not establish an
// identity for the caller.
var ErrNoIdentity = errors.New("no verified identity")

// AuthService exchanges a verified external identity for a signed,
// time-limited bearer token carrying role claims.
type AuthService struct {
	cfg    *config.Config
	roles  RoleLookup
	logger *slog.Logger
}

func NewAuthService(cfg *config.Config, roles RoleLookup, logger *slog.Logger) *AuthService {
	return &AuthService{cfg: cfg, roles: roles, logger: logger}
}

func (s *AuthService) IssueToken(ctx context.Context, identity string) (*models.TokenResponse, error) {
	if identity == "" {
		return nil, ErrNoIdentity
	}

	roles, err := s.roles.Roles(ctx, identity)
	if err != nil {
		s.logger.Warn("role lookup failed, falling back to default role",
			"user", identity, "error", err)
		roles = nil
	}
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}

	now := time.Now().UTC()
	expiration := now.Add(tokenValidity)

	claims := middleware.Claims{
		Username: identity,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    s.cfg.JWTIssuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWTAudience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiration),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &models.TokenResponse{Token: signed, Expiration: expiration}, nil
}
