package handlers

import (
	"net/http"

	"backend/internal/repositories"
	"backend/internal/ssrm"

	"github.com/gin-gonic/gin"
)

const permReceivablesRead = "audit.receivables.read"

// POST /api/audit/receivables/ssrm
func ReceivablesSSRM(c *gin.Context) {
	var req ssrm.PageRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	scope, err := resolver.ResolveScope(c, permReceivablesRead, req.ScopeQuery)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Set(authScopeKey, scope)

	repo := repositories.ReceivableRepo{Strict: env.StrictFilters}
	page, err := repo.Page(c.Request.Context(), req, scope)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rows":    page.Rows,
		"lastRow": page.LastRow,
	})
}
