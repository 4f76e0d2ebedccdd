package config

import (
	"errors"
	"os"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// IdentityHeader is the header a trusted reverse proxy sets after it has
	// verified the caller's Windows identity. AuthUsers holds
	// "user:bcrypt-hash" pairs (comma separated) for direct Basic auth.
	IdentityHeader string
	AuthUsers      string

	LDAPURL          string
	LDAPBaseDN       string
	LDAPBindDN       string
	LDAPBindPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "dmsaudit.db"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTIssuer:   getEnv("JWT_ISSUER", "DMSAudit"),
		JWTAudience: getEnv("JWT_AUDIENCE", "DMSAudit"),

		IdentityHeader: getEnv("AUTH_IDENTITY_HEADER", "X-Remote-User"),
		AuthUsers:      getEnv("AUTH_USERS", ""),

		LDAPURL:          getEnv("LDAP_URL", ""),
		LDAPBaseDN:       getEnv("LDAP_BASE_DN", ""),
		LDAPBindDN:       getEnv("LDAP_BIND_DN", ""),
		LDAPBindPassword: getEnv("LDAP_BIND_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
