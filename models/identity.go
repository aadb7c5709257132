package models

// Role vocabulary. A user may hold zero, one, or multiple roles.
const (
	RolePatient            = "patient"
	RoleHealthcareProvider = "healthcare_provider"
	RoleAdmin              = "admin"
)

// Default permission set granted when remote resolution fails. Deliberately
// minimal: enough for a basic authenticated user, never an elevated role.
var FallbackPermissions = []string{
	"bookings:read",
	"bookings:update",
	"profile:read",
	"profile:update",
}

// Identity is the resolved view of "who is signed in and what can they do".
// It is a value snapshot; consumers never mutate it.
type Identity struct {
	UserID      string   `json:"userId,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	// Loading is true while role/permission resolution is still in flight.
	// Protected content must not be authorized against a loading identity.
	Loading bool `json:"loading"`
}

// Authenticated reports whether an identity is present at all.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// HasRole reports whether the identity holds the given role.
func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the identity holds the given permission.
func (id Identity) HasPermission(permission string) bool {
	for _, p := range id.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
func (id Identity) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if id.HasRole(r) {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the identity holds at least one of the given permissions.
func (id Identity) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if id.HasPermission(p) {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool {
	return id.HasRole(RoleAdmin)
}

func (id Identity) IsHealthcareProvider() bool {
	return id.HasRole(RoleHealthcareProvider)
}
