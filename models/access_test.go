package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func patientIdentity() Identity {
	return Identity{
		UserID:      "u1",
		Roles:       []string{RolePatient},
		Permissions: []string{"bookings:read", "profile:read"},
	}
}

func TestRequirementSatisfiedBy(t *testing.T) {
	t.Run("empty requirement is trivially satisfied", func(t *testing.T) {
		assert.True(t, Requirement{}.SatisfiedBy(patientIdentity()))
		assert.True(t, Requirement{}.Empty())
	})

	t.Run("any listed role satisfies the role check", func(t *testing.T) {
		req := Requirement{Roles: []string{RoleAdmin, RolePatient}}
		assert.True(t, req.SatisfiedBy(patientIdentity()))
	})

	t.Run("holding none of the listed roles fails", func(t *testing.T) {
		req := Requirement{Roles: []string{RoleAdmin, RoleHealthcareProvider}}
		assert.False(t, req.SatisfiedBy(patientIdentity()))
	})

	t.Run("any listed permission satisfies the permission check", func(t *testing.T) {
		req := Requirement{Permissions: []string{"bookings:write", "profile:read"}}
		assert.True(t, req.SatisfiedBy(patientIdentity()))
	})

	t.Run("both checks must pass when both sets are present", func(t *testing.T) {
		rightRoleWrongPerm := Requirement{
			Roles:       []string{RolePatient},
			Permissions: []string{"admin:write"},
		}
		assert.False(t, rightRoleWrongPerm.SatisfiedBy(patientIdentity()))

		wrongRoleRightPerm := Requirement{
			Roles:       []string{RoleAdmin},
			Permissions: []string{"bookings:read"},
		}
		assert.False(t, wrongRoleRightPerm.SatisfiedBy(patientIdentity()))

		bothMatch := Requirement{
			Roles:       []string{RolePatient},
			Permissions: []string{"bookings:read"},
		}
		assert.True(t, bothMatch.SatisfiedBy(patientIdentity()))
	})
}

func TestIdentityPredicates(t *testing.T) {
	t.Run("zero identity is unauthenticated", func(t *testing.T) {
		var id Identity
		assert.False(t, id.Authenticated())
		assert.False(t, id.HasAnyRole(RolePatient))
		assert.False(t, id.HasAnyPermission("bookings:read"))
	})

	t.Run("role helpers", func(t *testing.T) {
		id := patientIdentity()
		assert.True(t, id.HasRole(RolePatient))
		assert.False(t, id.IsAdmin())
		assert.False(t, id.IsHealthcareProvider())

		id.Roles = append(id.Roles, RoleHealthcareProvider)
		assert.True(t, id.IsHealthcareProvider())
	})
}
