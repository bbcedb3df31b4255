package handlers

import (
	"net/http"

	"backend/internal/repositories"
	"backend/internal/ssrm"

	"github.com/gin-gonic/gin"
)

const permCashflowRead = "audit.cashflow.read"

// POST /api/audit/cashflow/ssrm
func CashflowSSRM(c *gin.Context) {
	var req ssrm.PageRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	scope, err := resolver.ResolveScope(c, permCashflowRead, req.ScopeQuery)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Set(authScopeKey, scope)

	repo := repositories.CashflowRepo{Strict: env.StrictFilters}
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
