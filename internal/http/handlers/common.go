package handlers

import (
	"net/http"

	"backend/internal/auth"
	intconfig "backend/internal/config"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

const authScopeKey = "auth_scope"

var (
	env      intconfig.Env
	resolver auth.AuthorizationProvider
)

// Configure wires the handler package to the loaded environment. Called once
// by the router before routes are mounted.
func Configure(e intconfig.Env) {
	env = e
	resolver = auth.Resolver{
		Session: auth.SessionProvider{Secret: []byte(e.JWTSecret)},
		Machine: auth.MachineProvider{Token: e.AuditToken, TokenHash: e.AuditTokenHash},
	}
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"error":      message,
		"request_id": reqID,
	}
	if err != nil && debugAllowed(c) {
		payload["debug"] = gin.H{"message": err.Error()}
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}
