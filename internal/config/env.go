package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	AppEnv  string
	GinMode string

	DBDSN string

	JWTSecret      string
	AuditToken     string
	AuditTokenHash string

	StrictFilters bool
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "development"
	}

	return Env{
		AppAddr:        appAddr,
		AppEnv:         appEnv,
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          strings.TrimSpace(os.Getenv("DB_DSN")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AuditToken:     strings.TrimSpace(os.Getenv("AUDIT_TOKEN")),
		AuditTokenHash: strings.TrimSpace(os.Getenv("AUDIT_TOKEN_HASH")),
		StrictFilters:  strings.TrimSpace(os.Getenv("SSRM_STRICT_FILTERS")) == "1",
	}
}

// IsProduction gates debug detail on error responses.
func (e Env) IsProduction() bool {
	return strings.EqualFold(e.AppEnv, "production")
}
