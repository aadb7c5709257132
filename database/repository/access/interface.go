package accessRepo

import "context"

// AccessRepository resolves and manages role assignments and permission
// grants. GetUserRoles and GetUserPermissions are independent lookups; the
// session provider calls them concurrently and falls back to a conservative
// default when either fails.
type AccessRepository interface {
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
	GetUserPermissions(ctx context.Context, userID string) ([]string, error)
	GrantRole(ctx context.Context, userID, role, grantedBy string) error
	RevokeRole(ctx context.Context, userID, role string) error
	GrantPermissions(ctx context.Context, userID string, permissions []string) error
}
