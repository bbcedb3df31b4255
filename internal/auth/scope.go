package auth

// TenantScope is the resolved access scope for one request. Built once by an
// AuthorizationProvider, never mutated afterwards.
type TenantScope struct {
	UserID         int64
	OrganizationID *int64
	BranchID       *int64
	IsAdmin        bool
	// AllowedBranches restricts non-admin callers. Empty means no branch
	// authorization at all: queries must return zero rows, not fail.
	AllowedBranches []int64
	// Machine marks scopes resolved from the shared-secret audit token.
	Machine bool
}
