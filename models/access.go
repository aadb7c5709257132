package models

// Requirement declares the roles and permissions a protected view demands.
// Within each set the semantics are disjunctive: holding ANY listed role
// satisfies the role check, and likewise for permissions. When both sets are
// non-empty, both checks must pass independently. An empty requirement is
// trivially satisfied by any authenticated identity.
type Requirement struct {
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Empty reports whether the requirement carries no role or permission demands.
func (r Requirement) Empty() bool {
	return len(r.Roles) == 0 && len(r.Permissions) == 0
}

// SatisfiedBy evaluates the requirement against an identity. The role check
// (when roles are required) is evaluated before the permission check.
func (r Requirement) SatisfiedBy(id Identity) bool {
	if len(r.Roles) > 0 && !id.HasAnyRole(r.Roles...) {
		return false
	}
	if len(r.Permissions) > 0 && !id.HasAnyPermission(r.Permissions...) {
		return false
	}
	return true
}
