package auth

import (
	"crypto/subtle"
	"strconv"
	"strings"

	"backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// MachineTokenHeader carries the shared secret for machine-to-machine grid
// access (audit exports, reconciliation jobs).
const MachineTokenHeader = "x-audit-token"

// AuthorizationProvider resolves the caller's tenant scope. The grid engine
// never learns how authorization was established.
type AuthorizationProvider interface {
	ResolveScope(c *gin.Context, permission string, scopeQuery map[string]string) (TenantScope, error)
}

// Resolver picks the machine path when the audit token header is present,
// the session path otherwise. Pure routing decision, no fallback between the
// two: a bad machine token must not degrade into an anonymous session check.
type Resolver struct {
	Session SessionProvider
	Machine MachineProvider
}

func (r Resolver) ResolveScope(c *gin.Context, permission string, scopeQuery map[string]string) (TenantScope, error) {
	if strings.TrimSpace(c.GetHeader(MachineTokenHeader)) != "" {
		return r.Machine.ResolveScope(c, permission, scopeQuery)
	}
	return r.Session.ResolveScope(c, permission, scopeQuery)
}

// SessionProvider resolves scope from an HS256 bearer token issued by the
// identity service. Claims: user_id, org_id, is_admin, branches, perms.
type SessionProvider struct {
	Secret []byte
}

func (p SessionProvider) ResolveScope(c *gin.Context, permission string, _ map[string]string) (TenantScope, error) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		return TenantScope{}, domain.UnauthorizedError{Msg: "missing bearer token"}
	}
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.Secret, nil
	})
	if err != nil || !token.Valid {
		return TenantScope{}, domain.UnauthorizedError{Msg: "invalid session token", Err: err}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TenantScope{}, domain.UnauthorizedError{Msg: "invalid session claims"}
	}

	scope := TenantScope{
		UserID:          claimInt(claims, "user_id"),
		IsAdmin:         claimBool(claims, "is_admin"),
		AllowedBranches: claimInts(claims, "branches"),
	}

	// Session callers are always bound to one organization. Only machine
	// callers may carry a nil OrganizationID, which the scope composer turns
	// into an unrestricted org predicate.
	org := claimInt(claims, "org_id")
	if org <= 0 {
		return TenantScope{}, domain.UnauthorizedError{Msg: "session token missing org_id"}
	}
	scope.OrganizationID = &org

	if !scope.IsAdmin && !hasPermission(claims, permission) {
		return TenantScope{}, domain.ForbiddenError{Msg: "missing permission " + permission}
	}
	return scope, nil
}

func hasPermission(claims jwt.MapClaims, permission string) bool {
	raw, ok := claims["perms"].([]any)
	if !ok {
		return false
	}
	for _, p := range raw {
		if s, ok := p.(string); ok && s == permission {
			return true
		}
	}
	return false
}

func claimInt(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

func claimBool(claims jwt.MapClaims, key string) bool {
	b, _ := claims[key].(bool)
	return b
}

func claimInts(claims jwt.MapClaims, key string) []int64 {
	raw, ok := claims[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			out = append(out, int64(f))
		}
	}
	return out
}

// MachineProvider validates the shared-secret header and builds scope from
// explicit org/branch parameters instead of identity. TokenHash (bcrypt) is
// preferred; Token is a plain-compare fallback for local setups.
type MachineProvider struct {
	Token     string
	TokenHash string
}

func (p MachineProvider) ResolveScope(c *gin.Context, _ string, scopeQuery map[string]string) (TenantScope, error) {
	got := strings.TrimSpace(c.GetHeader(MachineTokenHeader))
	if got == "" {
		return TenantScope{}, domain.UnauthorizedError{Msg: "missing audit token"}
	}

	switch {
	case p.TokenHash != "":
		if err := bcrypt.CompareHashAndPassword([]byte(p.TokenHash), []byte(got)); err != nil {
			return TenantScope{}, domain.UnauthorizedError{Msg: "invalid audit token"}
		}
	case p.Token != "":
		if subtle.ConstantTimeCompare([]byte(p.Token), []byte(got)) != 1 {
			return TenantScope{}, domain.UnauthorizedError{Msg: "invalid audit token"}
		}
	default:
		// no machine token configured for this deployment
		return TenantScope{}, domain.UnauthorizedError{Msg: "machine access disabled"}
	}

	// Machine callers are trusted: absent org param means no org restriction.
	scope := TenantScope{IsAdmin: true, Machine: true}
	if v := scopeParam(c, scopeQuery, "orgId"); v != "" {
		org, err := strconv.ParseInt(v, 10, 64)
		if err != nil || org <= 0 {
			return TenantScope{}, domain.ValidationError{Field: "orgId", Msg: "must be a positive integer"}
		}
		scope.OrganizationID = &org
	}
	if v := scopeParam(c, scopeQuery, "branchId"); v != "" {
		branch, err := strconv.ParseInt(v, 10, 64)
		if err != nil || branch <= 0 {
			return TenantScope{}, domain.ValidationError{Field: "branchId", Msg: "must be a positive integer"}
		}
		scope.BranchID = &branch
	}
	return scope, nil
}

func scopeParam(c *gin.Context, scopeQuery map[string]string, key string) string {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		return v
	}
	return strings.TrimSpace(scopeQuery[key])
}
