package ssrm

import (
	"strconv"
	"strings"

	"backend/internal/auth"
	"backend/internal/domain"
)

// SchemaCapability reports which tenancy columns the target table carries.
// Probed per table with a short TTL so databases mid-migration are tolerated.
type SchemaCapability struct {
	HasOrgColumn    bool
	HasBranchColumn bool
}

// ApplyScope appends the mandatory tenant predicate. It is called by the
// engine itself after all client-derived predicates, so no request content
// can disable it.
func ApplyScope(b *Builder, scope auth.TenantScope, caps SchemaCapability, table string, orgCol, branchCol Column) error {
	// A caller scoped to an organization against a table that cannot express
	// organizations would silently read across tenants. Fail loud instead.
	if !caps.HasOrgColumn {
		if scope.OrganizationID != nil {
			return domain.SchemaNotReadyError{Table: table, Column: orgCol.expr}
		}
	} else {
		var org any
		if scope.OrganizationID != nil {
			org = *scope.OrganizationID
		}
		b.EqOrNullParam(orgCol, org)
	}

	if !caps.HasBranchColumn {
		return nil
	}

	if scope.BranchID != nil {
		b.Compare(branchCol, OpEq, *scope.BranchID)
	}

	if scope.IsAdmin {
		return nil
	}
	if len(scope.AllowedBranches) == 0 {
		// fail-closed without an error: an empty page leaks nothing
		b.NoRows()
		return nil
	}
	b.InCSV(branchCol, joinInts(scope.AllowedBranches))
	return nil
}

func joinInts(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}
