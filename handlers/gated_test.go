package handlers

import (
	"testing"

	"meditravel/models"

	"github.com/stretchr/testify/assert"
)

func TestRenderGated(t *testing.T) {
	fragment := "provider-panel"
	fallback := "provider-teaser"
	requirement := models.Requirement{Roles: []string{models.RoleHealthcareProvider}}

	t.Run("renders nothing while the identity is loading", func(t *testing.T) {
		got := RenderGated(models.Identity{UserID: "u1", Loading: true}, requirement, fragment, fallback)
		assert.Nil(t, got)
	})

	t.Run("unauthenticated callers get the fallback", func(t *testing.T) {
		got := RenderGated(models.Identity{}, requirement, fragment, fallback)
		assert.Equal(t, fallback, got)
	})

	t.Run("authenticated but unqualified callers get the fallback", func(t *testing.T) {
		patient := models.Identity{UserID: "u1", Roles: []string{models.RolePatient}}
		got := RenderGated(patient, requirement, fragment, fallback)
		assert.Equal(t, fallback, got)
	})

	t.Run("qualified callers get the fragment", func(t *testing.T) {
		provider := models.Identity{
			UserID: "u1",
			Roles:  []string{models.RolePatient, models.RoleHealthcareProvider},
		}
		got := RenderGated(provider, requirement, fragment, fallback)
		assert.Equal(t, fragment, got)
	})

	t.Run("a nil fallback hides the section entirely", func(t *testing.T) {
		patient := models.Identity{UserID: "u1", Roles: []string{models.RolePatient}}
		got := RenderGated(patient, models.Requirement{Roles: []string{models.RoleAdmin}}, fragment, nil)
		assert.Nil(t, got)
	})
}
