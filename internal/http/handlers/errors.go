package handlers

import (
	"net/http"

	"backend/internal/domain"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	reqID := middleware.GetRequestID(c)

	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      err.Error(),
			"code":       "validation_error",
			"details":    domain.ValidationDetails(err),
			"request_id": reqID,
		})
	case domain.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      err.Error(),
			"code":       "unauthorized",
			"request_id": reqID,
		})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{
			"error":      err.Error(),
			"code":       "forbidden",
			"request_id": reqID,
		})
	case domain.IsSchemaNotReady(err):
		// deliberately fatal and descriptive: silently unscoped data would
		// cross tenants, and the fix is an operator action
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      err.Error(),
			"code":       "schema_not_ready",
			"request_id": reqID,
		})
	default:
		payload := gin.H{
			"error":      "internal error",
			"code":       "internal_error",
			"request_id": reqID,
		}
		if debugAllowed(c) {
			payload["debug"] = gin.H{"message": err.Error()}
		}
		c.JSON(http.StatusInternalServerError, payload)
	}
}

// debugAllowed gates driver-level detail: always outside production, and in
// production only for authenticated callers that explicitly ask. Anonymous
// probing never sees internals.
func debugAllowed(c *gin.Context) bool {
	if !env.IsProduction() {
		return true
	}
	if _, authed := c.Get(authScopeKey); !authed {
		return false
	}
	return c.GetHeader("x-debug") == "1"
}
